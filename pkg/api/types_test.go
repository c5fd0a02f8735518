package api

import (
	"encoding/json"
	"testing"
)

func TestMessageContent_TextRoundTrip(t *testing.T) {
	msg := Message{Role: RoleUser, Content: TextContent("hello")}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"role":"user","content":"hello"}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}

	var back Message
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back.Content.Text != "hello" || back.Content.IsParts() {
		t.Errorf("round trip = %+v, want text %q", back.Content, "hello")
	}
}

func TestMessageContent_PartsSerializeAsArray(t *testing.T) {
	msg := Message{
		Role: RoleUser,
		Content: PartsContent(
			ContentPart{Type: "text", Text: "what is this?"},
			ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: "https://example.com/cat.png"}},
		),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// The wire format must be a plain JSON array, indistinguishable from
	// an untyped value.
	var wire struct {
		Content []map[string]any `json:"content"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("content did not serialize as an array: %v", err)
	}
	if len(wire.Content) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(wire.Content))
	}
	if wire.Content[0]["type"] != "text" {
		t.Errorf("first part type = %v, want text", wire.Content[0]["type"])
	}
}

func TestMessageContent_UnmarshalRejectsObjects(t *testing.T) {
	var c MessageContent
	if err := json.Unmarshal([]byte(`{"bogus":true}`), &c); err == nil {
		t.Error("expected error for object content, got nil")
	}
}

func TestChatRequest_ThinkingOnWire(t *testing.T) {
	req := ChatRequest{
		Model:    "glm-4",
		Messages: []Message{{Role: RoleUser, Content: TextContent("hi")}},
		Stream:   true,
		Thinking: &Thinking{Type: ThinkingEnabled},
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if string(wire["thinking"]) != `{"type":"enabled"}` {
		t.Errorf("thinking = %s, want {\"type\":\"enabled\"}", wire["thinking"])
	}
	if string(wire["stream"]) != "true" {
		t.Errorf("stream = %s, want true", wire["stream"])
	}
}

func TestChatResponse_MessageContentIsPlainString(t *testing.T) {
	payload := `{"id":"chatcmpl-1","object":"chat.completion","created":1700000000,"model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"Hello!"},"finish_reason":"stop"}]}`

	var resp ChatResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	msg := resp.Choices[0].Message
	// content is always present on a blocking choice; only
	// reasoning_content can be absent.
	if msg.Content != "Hello!" {
		t.Errorf("content = %q, want Hello!", msg.Content)
	}
	if msg.ReasoningContent != nil {
		t.Errorf("absent reasoning_content should stay nil: %+v", msg)
	}
}

func TestStreamChunk_DeltaFieldsOptional(t *testing.T) {
	payload := `{"id":"c1","object":"chat.completion.chunk","created":1700000000,"model":"m","choices":[{"index":0,"delta":{"content":"Hel"},"finish_reason":null}]}`

	var chunk StreamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(chunk.Choices) != 1 {
		t.Fatalf("expected 1 choice, got %d", len(chunk.Choices))
	}
	delta := chunk.Choices[0].Delta
	if delta.Content == nil || *delta.Content != "Hel" {
		t.Errorf("content = %v, want Hel", delta.Content)
	}
	if delta.Role != nil || delta.ReasoningContent != nil {
		t.Errorf("absent fields should stay nil: %+v", delta)
	}
}

func TestUpdate_DoneOmitsDeltas(t *testing.T) {
	data, err := json.Marshal(DoneUpdate())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"done":true}` {
		t.Errorf("terminal update = %s, want {\"done\":true}", data)
	}
}
