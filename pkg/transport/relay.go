package transport

import (
	"context"
	"errors"
	"time"

	"github.com/Decadesice/LightFlow/pkg/api"
	"github.com/Decadesice/LightFlow/pkg/observability"
	"github.com/Decadesice/LightFlow/pkg/relay"
)

// Relayer is the subset of the relay client the handler needs. It is
// satisfied by *relay.Client.
type Relayer interface {
	Complete(ctx context.Context, model string, messages []api.Message, reasoning bool) (*api.ChatResponse, error)
	Stream(ctx context.Context, model string, messages []api.Message, reasoning bool, sink relay.Sink) error
}

// RelayHandler implements CompletionHandler on top of the relay client.
// It validates inbound requests, dispatches to blocking or streaming
// mode, and records upstream metrics. The relay core itself stays free
// of observability concerns.
type RelayHandler struct {
	relayer      Relayer
	defaultModel string
}

// NewRelayHandler creates a handler backed by the given relayer. The
// default model is used when a request names none; it may be empty, in
// which case requests must name a model.
func NewRelayHandler(r Relayer, defaultModel string) *RelayHandler {
	return &RelayHandler{relayer: r, defaultModel: defaultModel}
}

// HandleCompletion relays a single completion request.
func (h *RelayHandler) HandleCompletion(ctx context.Context, req *CompletionRequest, w ResultWriter) error {
	if len(req.Messages) == 0 {
		return NewInvalidRequestError("messages must not be empty")
	}
	for _, m := range req.Messages {
		if m.Role == "" {
			return NewInvalidRequestError("message role must not be empty")
		}
	}

	model := req.Model
	if model == "" {
		model = h.defaultModel
	}
	if model == "" {
		return NewInvalidRequestError("model is required")
	}

	if !req.Stream {
		start := time.Now()
		resp, err := h.relayer.Complete(ctx, model, req.Messages, req.Reasoning)
		observeUpstream("blocking", start, err)
		if err != nil {
			return err
		}
		return w.WriteResponse(ctx, resp)
	}

	observability.StreamsActive.Inc()
	defer observability.StreamsActive.Dec()

	sink := relay.SinkFunc(func(update api.Update) error {
		kind := observability.UpdateKind(update.Content, update.ReasoningContent, update.Done)
		observability.StreamUpdatesTotal.WithLabelValues(kind).Inc()
		return w.WriteUpdate(ctx, update)
	})

	start := time.Now()
	err := h.relayer.Stream(ctx, model, req.Messages, req.Reasoning, sink)
	observeUpstream("streaming", start, err)
	return err
}

// observeUpstream records per-call upstream metrics. The outcome label is
// "ok" or the relay error type.
func observeUpstream(mode string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		var relayErr *api.Error
		if errors.As(err, &relayErr) {
			outcome = string(relayErr.Type)
		} else {
			outcome = "error"
		}
	}
	observability.UpstreamRequestsTotal.WithLabelValues(mode, outcome).Inc()
	observability.UpstreamLatency.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}
