package transport

import (
	"context"

	"github.com/Decadesice/LightFlow/pkg/api"
)

// CompletionRequest is the inbound request on the serving surface. It is
// deliberately smaller than the backend wire format: callers say whether
// they want reasoning with a plain bool, and the relay translates that to
// the backend's thinking parameter.
type CompletionRequest struct {
	Model     string        `json:"model,omitempty"`
	Messages  []api.Message `json:"messages"`
	Stream    bool          `json:"stream,omitempty"`
	Reasoning bool          `json:"reasoning,omitempty"`
}

// CompletionHandler handles the core relay operation. The implementation
// receives a request and writes the result (streamed updates or a complete
// response) to the ResultWriter.
type CompletionHandler interface {
	HandleCompletion(ctx context.Context, req *CompletionRequest, w ResultWriter) error
}

// CompletionHandlerFunc is an adapter that allows using an ordinary
// function as a CompletionHandler.
type CompletionHandlerFunc func(ctx context.Context, req *CompletionRequest, w ResultWriter) error

// HandleCompletion calls f(ctx, req, w).
func (f CompletionHandlerFunc) HandleCompletion(ctx context.Context, req *CompletionRequest, w ResultWriter) error {
	return f(ctx, req, w)
}

// ResultWriter abstracts streaming and non-streaming output for the
// handler. The transport layer creates a ResultWriter for each request.
// The handler uses WriteUpdate for streaming or WriteResponse for
// blocking mode; the two are mutually exclusive on a single writer, and
// WriteUpdate after a terminal (done) update returns an error.
type ResultWriter interface {
	// WriteUpdate sends a single normalized update. Returns an error if
	// called after a done update or after WriteResponse.
	WriteUpdate(ctx context.Context, update api.Update) error

	// WriteResponse sends a complete blocking-mode response. Returns an
	// error if called after WriteUpdate was called on this writer.
	WriteResponse(ctx context.Context, resp *api.ChatResponse) error

	// Flush ensures buffered data is sent to the client.
	Flush() error
}
