package api

import (
	"encoding/json"
	"fmt"
)

// ---------------------------------------------------------------------------
// Message content
// ---------------------------------------------------------------------------

// MessageRole values used on the Chat Completions wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ContentPart represents one part of a multimodal message.
// The Type field indicates the kind of content: "text" or "image_url".
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an image reference or data URI.
type ImageURL struct {
	URL string `json:"url"`
}

// MessageContent is a closed variant: plain text or an ordered list of
// content parts. Text serializes as a JSON string, parts as a JSON array,
// so the wire format is identical to an untyped value.
type MessageContent struct {
	Text  string
	Parts []ContentPart
}

// TextContent creates plain-text message content.
func TextContent(text string) MessageContent {
	return MessageContent{Text: text}
}

// PartsContent creates multi-part (multimodal) message content.
func PartsContent(parts ...ContentPart) MessageContent {
	return MessageContent{Parts: parts}
}

// IsParts reports whether the content is the multi-part variant.
func (c MessageContent) IsParts() bool {
	return c.Parts != nil
}

// MarshalJSON serializes text as a string and parts as an array.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.Parts != nil {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON accepts either a JSON string or an array of parts.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		c.Text = text
		c.Parts = nil
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("message content must be a string or an array of parts: %w", err)
	}
	c.Text = ""
	c.Parts = parts
	return nil
}

// Message is one conversation turn sent to the backend. The relay does not
// interpret the content's internal shape; it is passed through verbatim.
type Message struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

// ---------------------------------------------------------------------------
// Request envelope
// ---------------------------------------------------------------------------

// Thinking type values. The backend requires an explicit value; requests
// built by the relay always carry one of the two.
const (
	ThinkingEnabled  = "enabled"
	ThinkingDisabled = "disabled"
)

// Thinking toggles the backend's reasoning mode.
type Thinking struct {
	Type string `json:"type"`
}

// ChatRequest is the request body for /chat/completions. Built once per
// call and never mutated afterwards. Messages are not validated locally;
// an empty model or message list is rejected by the backend.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Thinking *Thinking `json:"thinking,omitempty"`
}

// ---------------------------------------------------------------------------
// Blocking response envelope
// ---------------------------------------------------------------------------

// ChatResponse is the blocking-mode response from /chat/completions.
type ChatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Choice is one completion choice in a blocking response.
type Choice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason *string         `json:"finish_reason"`
}

// ResponseMessage is the assistant message inside a blocking choice.
type ResponseMessage struct {
	Role             string  `json:"role"`
	Content          string  `json:"content"`
	ReasoningContent *string `json:"reasoning_content,omitempty"`
}

// ---------------------------------------------------------------------------
// Streaming chunk envelope
// ---------------------------------------------------------------------------

// StreamChunk is the JSON payload of one SSE "data:" line.
type StreamChunk struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []StreamChoice `json:"choices"`
}

// StreamChoice is one choice delta in a streaming chunk.
type StreamChoice struct {
	Index        int          `json:"index"`
	Delta        StreamDelta  `json:"delta"`
	FinishReason *string      `json:"finish_reason"`
}

// StreamDelta holds the incremental fields of a streaming chunk.
type StreamDelta struct {
	Role             *string `json:"role,omitempty"`
	Content          *string `json:"content,omitempty"`
	ReasoningContent *string `json:"reasoning_content,omitempty"`
}

// ---------------------------------------------------------------------------
// Normalized update
// ---------------------------------------------------------------------------

// Update is the relay's normalized output unit: one incremental change,
// independent of the wire schema. Exactly one Update per stream has
// Done=true; it is always the last one and carries no deltas.
type Update struct {
	Content          *string `json:"content,omitempty"`
	ReasoningContent *string `json:"reasoning_content,omitempty"`
	Done             bool    `json:"done"`
}

// DoneUpdate returns the terminal update.
func DoneUpdate() Update {
	return Update{Done: true}
}
