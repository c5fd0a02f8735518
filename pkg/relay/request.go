package relay

import "github.com/Decadesice/LightFlow/pkg/api"

// NewChatRequest assembles the outbound request body for a completion
// call. The thinking toggle is always explicit: the backend requires
// "enabled" or "disabled" rather than treating the field as optional.
//
// No validation is performed here. An empty model or message list passes
// through and is rejected by the backend, surfacing as an api_error at
// request time.
func NewChatRequest(model string, messages []api.Message, stream, reasoning bool) *api.ChatRequest {
	thinking := &api.Thinking{Type: api.ThinkingDisabled}
	if reasoning {
		thinking.Type = api.ThinkingEnabled
	}

	return &api.ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   stream,
		Thinking: thinking,
	}
}
