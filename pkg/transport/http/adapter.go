package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Decadesice/LightFlow/pkg/api"
	"github.com/Decadesice/LightFlow/pkg/transport"
)

// Adapter serves the relay API over HTTP. It routes requests, decodes
// and validates inbound JSON, and bridges to a CompletionHandler through
// a ResultWriter that speaks JSON or SSE.
type Adapter struct {
	handler  transport.CompletionHandler
	inflight *transport.InFlightRegistry
	mux      *http.ServeMux
	config   Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	Addr            string
	MaxBodySize     int64
	ShutdownTimeout int // seconds
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MaxBodySize:     10 << 20, // 10 MB
		ShutdownTimeout: 30,
	}
}

// NewAdapter creates an HTTP adapter around the given handler.
// Middleware is applied to the handler in the given order.
func NewAdapter(handler transport.CompletionHandler, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		handler = transport.Chain(middlewares...)(handler)
	}

	a := &Adapter{
		handler:  handler,
		inflight: transport.NewInFlightRegistry(),
		mux:      http.NewServeMux(),
		config:   cfg,
	}

	a.mux.HandleFunc("POST /v1/chat/completions", a.handleChatCompletion)
	a.mux.HandleFunc("GET /healthz", a.handleHealth)

	return a
}

// Handler returns the http.Handler for this adapter. Use this to
// integrate with an http.Server or test with httptest. The returned
// handler includes HTTP-level middleware for request ID propagation.
func (a *Adapter) Handler() http.Handler {
	return httpRequestIDMiddleware(a.mux)
}

// InFlight exposes the in-flight stream registry so the server can
// cancel active streams during shutdown.
func (a *Adapter) InFlight() *transport.InFlightRegistry {
	return a.inflight
}

// httpRequestIDMiddleware assigns every request an X-Request-ID: the
// caller's if the header is present, a fresh one otherwise. The ID is
// placed in the request context for the handler chain and on the
// response headers before the handler runs, so it is echoed even on
// streaming responses whose status goes out mid-handler.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = api.NewRequestID()
		}
		r = r.WithContext(transport.ContextWithRequestID(r.Context(), id))
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// handleChatCompletion handles POST /v1/chat/completions.
func (a *Adapter) handleChatCompletion(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct != "" && ct != "application/json" {
		transport.WriteErrorResponse(w,
			transport.NewInvalidRequestError("Content-Type must be application/json"),
			http.StatusUnsupportedMediaType,
		)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var req transport.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				transport.NewInvalidRequestError(fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return
		}
		transport.WriteErrorResponse(w,
			transport.NewInvalidRequestError("invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return
	}

	if req.Stream {
		a.handleStreaming(w, r, &req)
		return
	}

	rw := newUpdateWriter(w)
	if err := a.handler.HandleCompletion(r.Context(), &req, rw); err != nil {
		writeHandlerError(w, rw, err)
	}
}

// handleStreaming handles streaming requests (stream: true). The stream
// is registered for cancellation so shutdown does not have to wait out
// the upstream timeout.
func (a *Adapter) handleStreaming(w http.ResponseWriter, r *http.Request, req *transport.CompletionRequest) {
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The request ID middleware has already run; fall back only when the
	// mux is mounted without Handler().
	id := transport.RequestIDFromContext(ctx)
	if id == "" {
		id = api.NewRequestID()
		ctx = transport.ContextWithRequestID(ctx, id)
	}
	a.inflight.Register(id, cancel)
	defer a.inflight.Remove(id)

	rw := newUpdateWriter(w)
	if err := a.handler.HandleCompletion(ctx, req, rw); err != nil {
		writeHandlerError(w, rw, err)
	}
}

// handleHealth handles GET /healthz.
func (a *Adapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}

// writeHandlerError writes an error from the handler. If streaming has
// already started the HTTP status is gone, so the error goes out as a
// final SSE frame followed by the [DONE] sentinel. Otherwise it becomes
// a standard JSON error response.
func writeHandlerError(w http.ResponseWriter, rw *updateWriter, err error) {
	var relayErr *api.Error
	if !errors.As(err, &relayErr) {
		relayErr = api.NewAPIError(http.StatusInternalServerError, err.Error())
	}

	if rw.hasStartedStreaming() {
		rw.terminate(relayErr)
		return
	}

	transport.WriteError(w, relayErr)
}
