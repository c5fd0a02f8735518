package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/Decadesice/LightFlow/pkg/api"
	"github.com/Decadesice/LightFlow/pkg/relay"
)

// stubRelayer records the call it received and plays back a scripted result.
type stubRelayer struct {
	gotModel     string
	gotReasoning bool
	gotStream    bool

	response *api.ChatResponse
	updates  []api.Update
	err      error
}

func (s *stubRelayer) Complete(ctx context.Context, model string, messages []api.Message, reasoning bool) (*api.ChatResponse, error) {
	s.gotModel = model
	s.gotReasoning = reasoning
	return s.response, s.err
}

func (s *stubRelayer) Stream(ctx context.Context, model string, messages []api.Message, reasoning bool, sink relay.Sink) error {
	s.gotModel = model
	s.gotReasoning = reasoning
	s.gotStream = true
	for _, u := range s.updates {
		if err := sink.Notify(u); err != nil {
			return nil // sink failures never abort the stream
		}
	}
	return s.err
}

func TestBlockingCompletionWritesResponse(t *testing.T) {
	stub := &stubRelayer{response: &api.ChatResponse{ID: "chatcmpl-1", Object: "chat.completion", Model: "test-model"}}
	h := NewRelayHandler(stub, "")
	w := &recordingWriter{}

	req := testRequest()
	req.Reasoning = true
	if err := h.HandleCompletion(context.Background(), req, w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if w.response == nil || w.response.ID != "chatcmpl-1" {
		t.Errorf("response = %+v, want chatcmpl-1", w.response)
	}
	if len(w.updates) != 0 {
		t.Errorf("blocking mode wrote %d updates", len(w.updates))
	}
	if stub.gotModel != "test-model" || !stub.gotReasoning {
		t.Errorf("relayer saw model=%q reasoning=%v", stub.gotModel, stub.gotReasoning)
	}
}

func TestStreamingCompletionForwardsUpdates(t *testing.T) {
	content := "Hello"
	stub := &stubRelayer{updates: []api.Update{
		{Content: &content},
		api.DoneUpdate(),
	}}
	h := NewRelayHandler(stub, "")
	w := &recordingWriter{}

	req := testRequest()
	req.Stream = true
	if err := h.HandleCompletion(context.Background(), req, w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !stub.gotStream {
		t.Fatal("relayer Stream was not called")
	}
	if len(w.updates) != 2 {
		t.Fatalf("got %d updates, want 2", len(w.updates))
	}
	if w.updates[0].Content == nil || *w.updates[0].Content != "Hello" {
		t.Errorf("first update = %+v, want content Hello", w.updates[0])
	}
	if !w.updates[1].Done {
		t.Errorf("last update = %+v, want done", w.updates[1])
	}
}

func TestDefaultModelApplied(t *testing.T) {
	stub := &stubRelayer{response: &api.ChatResponse{ID: "chatcmpl-1"}}
	h := NewRelayHandler(stub, "fallback-model")

	req := testRequest()
	req.Model = ""
	if err := h.HandleCompletion(context.Background(), req, &recordingWriter{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.gotModel != "fallback-model" {
		t.Errorf("model = %q, want fallback-model", stub.gotModel)
	}
}

func TestValidationRejections(t *testing.T) {
	h := NewRelayHandler(&stubRelayer{}, "")

	tests := []struct {
		name string
		req  *CompletionRequest
	}{
		{"no messages", &CompletionRequest{Model: "m"}},
		{"empty role", &CompletionRequest{Model: "m", Messages: []api.Message{{Content: api.TextContent("hi")}}}},
		{"no model anywhere", &CompletionRequest{Messages: []api.Message{{Role: "user", Content: api.TextContent("hi")}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.HandleCompletion(context.Background(), tt.req, &recordingWriter{})
			var relayErr *api.Error
			if !errors.As(err, &relayErr) || relayErr.Type != ErrorTypeInvalidRequest {
				t.Fatalf("err = %v, want invalid_request_error", err)
			}
		})
	}
}

func TestRelayErrorPropagates(t *testing.T) {
	wantErr := api.NewAPIError(503, "overloaded")
	stub := &stubRelayer{err: wantErr}
	h := NewRelayHandler(stub, "")

	err := h.HandleCompletion(context.Background(), testRequest(), &recordingWriter{})
	if err != wantErr {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}
