package transport

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Decadesice/LightFlow/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to server error responses. The server continues to
// accept new requests after a panic is recovered.
func Recovery() Middleware {
	return func(next CompletionHandler) CompletionHandler {
		return CompletionHandlerFunc(func(ctx context.Context, req *CompletionRequest, w ResultWriter) (retErr error) {
			defer func() {
				if r := recover(); r != nil {
					retErr = api.NewAPIError(http.StatusInternalServerError, fmt.Sprintf("internal server error: %v", r))
				}
			}()
			return next.HandleCompletion(ctx, req, w)
		})
	}
}
