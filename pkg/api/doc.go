// Package api defines the wire-level protocol types for the LightFlow
// chat-completion relay.
//
// This package provides the data types exchanged with an OpenAI-compatible
// Chat Completions backend (requests, blocking responses, streaming chunks),
// the normalized Update type delivered to hosting applications, the
// structured error taxonomy, and request ID generation.
//
// The package has zero external dependencies (Go standard library only) and
// performs no I/O. All types produce JSON compatible with the Chat
// Completions wire format.
//
// Core types:
//   - [Message]: One conversation turn with text or multi-part content
//   - [ChatRequest]: Outbound request body for /chat/completions
//   - [ChatResponse]: Blocking-mode response envelope
//   - [StreamChunk]: One streaming SSE event payload
//   - [Update]: Normalized incremental update pushed to the hosting app
//   - [Error]: Structured error with transport/api/decode taxonomy
package api
