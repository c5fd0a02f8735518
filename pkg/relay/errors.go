package relay

import (
	"io"
	"net/http"
	"strings"

	"github.com/Decadesice/LightFlow/pkg/api"
)

// errorBodyPlaceholder is substituted when a non-success response body
// cannot be read.
const errorBodyPlaceholder = "unknown error"

// maxErrorBodySize bounds how much of an error body is read.
const maxErrorBodySize = 4096

// mapHTTPError converts a non-2xx backend response into an api_error
// carrying the server-provided body text (best-effort).
func mapHTTPError(resp *http.Response) *api.Error {
	return api.NewAPIError(resp.StatusCode, readErrorBody(resp.Body))
}

// readErrorBody reads the response body as text for error reporting. An
// unreadable or empty body yields the fixed placeholder.
func readErrorBody(body io.Reader) string {
	if body == nil {
		return errorBodyPlaceholder
	}
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil {
		return errorBodyPlaceholder
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return errorBodyPlaceholder
	}
	return text
}
