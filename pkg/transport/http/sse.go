package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Decadesice/LightFlow/pkg/api"
	"github.com/Decadesice/LightFlow/pkg/transport"
)

// writerState tracks the state of an updateWriter.
type writerState int

const (
	writerIdle      writerState = iota // no writes yet
	writerStreaming                    // WriteUpdate has been called at least once
	writerCompleted                    // done update sent or WriteResponse called
)

// updateWriter implements transport.ResultWriter for HTTP responses.
// In streaming mode each normalized update becomes one SSE data frame:
//
//	data: {"content":"...","done":false}\n
//	\n
//
// The done update is followed by the literal sentinel clients expect:
//
//	data: [DONE]\n
//	\n
//
// In blocking mode WriteResponse emits a single JSON body.
type updateWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController

	mu    sync.Mutex
	state writerState
}

var _ transport.ResultWriter = (*updateWriter)(nil)

func newUpdateWriter(w http.ResponseWriter) *updateWriter {
	return &updateWriter{
		w:  w,
		rc: http.NewResponseController(w),
	}
}

// WriteUpdate sends a single SSE data frame and flushes it so hosting
// applications see deltas as they arrive, not when the stream ends.
func (u *updateWriter) WriteUpdate(ctx context.Context, update api.Update) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state == writerCompleted {
		return errors.New("cannot write update: writer is completed")
	}

	// First update: set SSE headers.
	if u.state == writerIdle {
		u.w.Header().Set("Content-Type", "text/event-stream")
		u.w.Header().Set("Cache-Control", "no-cache")
		u.w.Header().Set("Connection", "keep-alive")
		u.state = writerStreaming
	}

	data, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	if _, err := fmt.Fprintf(u.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write update: %w", err)
	}
	if err := u.rc.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	if update.Done {
		if _, err := fmt.Fprint(u.w, "data: [DONE]\n\n"); err != nil {
			return fmt.Errorf("failed to write [DONE]: %w", err)
		}
		if err := u.rc.Flush(); err != nil {
			return fmt.Errorf("failed to flush [DONE]: %w", err)
		}
		u.state = writerCompleted
	}

	return nil
}

// WriteResponse sends a complete blocking-mode JSON response.
// This is mutually exclusive with WriteUpdate.
func (u *updateWriter) WriteResponse(ctx context.Context, resp *api.ChatResponse) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state == writerStreaming {
		return errors.New("cannot write response: streaming has already started")
	}
	if u.state == writerCompleted {
		return errors.New("cannot write response: writer is completed")
	}

	u.w.Header().Set("Content-Type", "application/json")
	u.state = writerCompleted

	if err := json.NewEncoder(u.w).Encode(resp); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	return nil
}

// Flush ensures buffered data is sent to the client.
func (u *updateWriter) Flush() error {
	return u.rc.Flush()
}

// terminate ends an in-progress stream with an error frame and the
// [DONE] sentinel. Used when the relay fails after SSE output has
// started and the HTTP status can no longer carry the error.
func (u *updateWriter) terminate(relayErr *api.Error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state != writerStreaming {
		return
	}
	u.state = writerCompleted

	data, err := json.Marshal(api.ErrorResponse{Error: relayErr})
	if err != nil {
		return
	}
	if _, err := fmt.Fprintf(u.w, "data: %s\n\n", data); err != nil {
		return
	}
	fmt.Fprint(u.w, "data: [DONE]\n\n")
	u.rc.Flush()
}

// hasStartedStreaming reports whether at least one SSE frame went out.
// Once it has, errors can no longer change the HTTP status.
func (u *updateWriter) hasStartedStreaming() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state != writerIdle && u.w.Header().Get("Content-Type") == "text/event-stream"
}
