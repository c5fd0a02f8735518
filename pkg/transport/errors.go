package transport

import (
	"encoding/json"
	"net/http"

	"github.com/Decadesice/LightFlow/pkg/api"
)

// ErrorTypeInvalidRequest marks requests rejected by the serving surface
// before any relay attempt. It extends the relay's own error taxonomy
// (transport_error, api_error, decode_error), which is reserved for
// backend call outcomes.
const ErrorTypeInvalidRequest api.ErrorType = "invalid_request_error"

// NewInvalidRequestError creates an error for a malformed inbound request.
func NewInvalidRequestError(message string) *api.Error {
	return &api.Error{
		Type:    ErrorTypeInvalidRequest,
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

// HTTPStatusFromError maps a relay error to the HTTP status returned on
// the serving surface. Backend statuses pass through on api_error;
// connection and schema failures surface as 502 because the relay itself
// is healthy but its upstream is not.
func HTTPStatusFromError(err *api.Error) int {
	switch err.Type {
	case ErrorTypeInvalidRequest:
		if err.Status != 0 {
			return err.Status
		}
		return http.StatusBadRequest
	case api.ErrorTypeAPI:
		if err.Status >= 400 && err.Status < 600 {
			return err.Status
		}
		return http.StatusBadGateway
	case api.ErrorTypeTransport, api.ErrorTypeDecode:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteErrorResponse writes a JSON error response using the ErrorResponse
// wrapper format from pkg/api. It sets the Content-Type header and writes
// the HTTP status code.
func WriteErrorResponse(w http.ResponseWriter, relayErr *api.Error, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: relayErr})
}

// WriteError writes an error response, deriving the HTTP status code
// from the error type.
func WriteError(w http.ResponseWriter, relayErr *api.Error) {
	WriteErrorResponse(w, relayErr, HTTPStatusFromError(relayErr))
}
