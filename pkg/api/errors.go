package api

import "fmt"

// ErrorType represents the category of a relay error.
type ErrorType string

const (
	// ErrorTypeTransport covers connection, DNS, and TLS failures as well
	// as mid-stream disconnects.
	ErrorTypeTransport ErrorType = "transport_error"

	// ErrorTypeAPI covers non-success HTTP statuses from the backend. The
	// message carries the server-provided body text (or a placeholder).
	ErrorTypeAPI ErrorType = "api_error"

	// ErrorTypeDecode covers blocking-mode response bodies that do not
	// match the expected schema.
	ErrorTypeDecode ErrorType = "decode_error"
)

// Error is a structured relay error with a typed taxonomy. Per-event JSON
// parse failures during streaming are intentionally NOT represented here;
// they are skipped to keep the stream alive.
type Error struct {
	Type    ErrorType `json:"type"`
	Status  int       `json:"status,omitempty"` // HTTP status for api_error
	Message string    `json:"message"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Type, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// ErrorResponse wraps an Error for JSON serialization as the top-level
// error response on the serving surface.
type ErrorResponse struct {
	Error *Error `json:"error"`
}

// NewTransportError creates an Error for connection-level failures.
func NewTransportError(cause error) *Error {
	return &Error{
		Type:    ErrorTypeTransport,
		Message: cause.Error(),
		cause:   cause,
	}
}

// NewAPIError creates an Error for a non-success backend status. The body
// text is best-effort; callers substitute a placeholder when unreadable.
func NewAPIError(status int, body string) *Error {
	return &Error{
		Type:    ErrorTypeAPI,
		Status:  status,
		Message: body,
	}
}

// NewDecodeError creates an Error for a response body that does not match
// the expected schema.
func NewDecodeError(cause error) *Error {
	return &Error{
		Type:    ErrorTypeDecode,
		Message: cause.Error(),
		cause:   cause,
	}
}
