package api

import "fmt"

// ValidateResponse checks that a decoded blocking response carries the
// wire fields the protocol requires. encoding/json leaves missing fields
// zeroed instead of failing, so a schema mismatch must be caught here;
// callers wrap the returned error as a decode error rather than handing
// a zeroed ChatResponse to the application.
func ValidateResponse(resp *ChatResponse) error {
	if resp.ID == "" {
		return fmt.Errorf("response missing required field %q", "id")
	}
	if resp.Object == "" {
		return fmt.Errorf("response missing required field %q", "object")
	}
	if resp.Model == "" {
		return fmt.Errorf("response missing required field %q", "model")
	}
	if resp.Choices == nil {
		return fmt.Errorf("response missing required field %q", "choices")
	}
	return nil
}
