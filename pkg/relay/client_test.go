package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Decadesice/LightFlow/pkg/api"
)

func userMessages(text string) []api.Message {
	return []api.Message{{Role: api.RoleUser, Content: api.TextContent(text)}}
}

func TestComplete_Success(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q, want /chat/completions", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1700000000,"model":"glm-4","choices":[{"index":0,"message":{"role":"assistant","content":"Hello!"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "sk-test", 5*time.Second)
	defer c.Close()

	resp, err := c.Complete(context.Background(), "glm-4", userMessages("hi"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ID != "chatcmpl-1" || len(resp.Choices) != 1 {
		t.Errorf("response = %+v", resp)
	}
	if resp.Choices[0].Message.Content != "Hello!" {
		t.Errorf("content = %q, want Hello!", resp.Choices[0].Message.Content)
	}

	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want Bearer sk-test", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if string(gotBody["thinking"]) != `{"type":"enabled"}` {
		t.Errorf("thinking on wire = %s", gotBody["thinking"])
	}
	if string(gotBody["stream"]) != "false" {
		t.Errorf("stream on wire = %s", gotBody["stream"])
	}
}

func TestComplete_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, "rate limited")
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", 5*time.Second)
	_, err := c.Complete(context.Background(), "glm-4", userMessages("hi"), false)

	var relayErr *api.Error
	if !errors.As(err, &relayErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if relayErr.Type != api.ErrorTypeAPI {
		t.Errorf("type = %q, want api_error", relayErr.Type)
	}
	if !strings.Contains(relayErr.Error(), "rate limited") {
		t.Errorf("error %q should contain the server body", relayErr.Error())
	}
}

func TestComplete_EmptyErrorBodyPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", 5*time.Second)
	_, err := c.Complete(context.Background(), "glm-4", userMessages("hi"), false)

	var relayErr *api.Error
	if !errors.As(err, &relayErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	if !strings.Contains(relayErr.Message, "unknown error") {
		t.Errorf("message = %q, want placeholder", relayErr.Message)
	}
}

func TestComplete_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "{not json")
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", 5*time.Second)
	_, err := c.Complete(context.Background(), "glm-4", userMessages("hi"), false)

	var relayErr *api.Error
	if !errors.As(err, &relayErr) || relayErr.Type != api.ErrorTypeDecode {
		t.Fatalf("expected decode_error, got %v", err)
	}
}

func TestComplete_SchemaMismatch(t *testing.T) {
	// Valid JSON that is missing required fields must yield a
	// decode_error, never a zeroed response.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unexpected":"shape"}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", 5*time.Second)
	resp, err := c.Complete(context.Background(), "glm-4", userMessages("hi"), false)
	if resp != nil {
		t.Errorf("no response expected on schema mismatch, got %+v", resp)
	}
	var relayErr *api.Error
	if !errors.As(err, &relayErr) || relayErr.Type != api.ErrorTypeDecode {
		t.Fatalf("expected decode_error, got %v", err)
	}
}

func TestComplete_ConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Nothing is listening anymore.

	c := New(srv.URL, "sk-test", time.Second)
	_, err := c.Complete(context.Background(), "glm-4", userMessages("hi"), false)

	var relayErr *api.Error
	if !errors.As(err, &relayErr) || relayErr.Type != api.ErrorTypeTransport {
		t.Fatalf("expected transport_error, got %v", err)
	}
}

func sseHandler(t *testing.T, lines ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("Accept = %q, want text/event-stream", r.Header.Get("Accept"))
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("response writer does not support flushing")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n\n", line)
			flusher.Flush()
		}
	}
}

func TestStream_DeliversUpdatesInOrder(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t,
		`data: {"id":"c1","object":"chat.completion.chunk","created":1,"model":"glm-4","choices":[{"index":0,"delta":{"content":"Hel"},"finish_reason":null}]}`,
		`data: {"id":"c1","object":"chat.completion.chunk","created":1,"model":"glm-4","choices":[{"index":0,"delta":{"content":"lo"},"finish_reason":null}]}`,
		"data: [DONE]",
	))
	defer srv.Close()

	c := New(srv.URL, "sk-test", 0)
	var updates []api.Update
	err := c.Stream(context.Background(), "glm-4", userMessages("hi"), false, SinkFunc(func(u api.Update) error {
		updates = append(updates, u)
		return nil
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(updates) != 3 {
		t.Fatalf("expected 3 updates, got %+v", updates)
	}
	if *updates[0].Content != "Hel" || *updates[1].Content != "lo" {
		t.Errorf("contents = %+v", updates[:2])
	}
	if !updates[2].Done {
		t.Errorf("last update = %+v, want terminal", updates[2])
	}
}

func TestStream_NonSuccessBeforeAnyUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, "invalid api key")
	}))
	defer srv.Close()

	c := New(srv.URL, "wrong", 0)
	var notified bool
	err := c.Stream(context.Background(), "glm-4", userMessages("hi"), false, SinkFunc(func(api.Update) error {
		notified = true
		return nil
	}))

	var relayErr *api.Error
	if !errors.As(err, &relayErr) || relayErr.Type != api.ErrorTypeAPI {
		t.Fatalf("expected api_error, got %v", err)
	}
	if !strings.Contains(relayErr.Message, "invalid api key") {
		t.Errorf("message = %q", relayErr.Message)
	}
	if notified {
		t.Error("sink must not be called when the stream never starts")
	}
}

func TestStream_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, `data: {"id":"c1","object":"chat.completion.chunk","created":1,"model":"m","choices":[{"index":0,"delta":{"content":"x"},"finish_reason":null}]}`+"\n\n")
		flusher.Flush()
		// Hold the stream open until the client goes away.
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", 0)
	err := c.Stream(ctx, "glm-4", userMessages("hi"), false, SinkFunc(func(u api.Update) error {
		cancel() // Abort after the first update.
		return nil
	}))

	// Cancellation is observed as the input ending, not as an error.
	if err != nil {
		t.Fatalf("cancellation should end the stream gracefully: %v", err)
	}
}

func TestStream_RequestBodyCarriesThinking(t *testing.T) {
	var gotBody map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		sseHandler(t, "data: [DONE]")(w, r)
	}))
	defer srv.Close()

	c := New(srv.URL, "sk-test", 0)
	err := c.Stream(context.Background(), "glm-4", userMessages("hi"), false, SinkFunc(func(api.Update) error {
		return nil
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(gotBody["thinking"]) != `{"type":"disabled"}` {
		t.Errorf("thinking on wire = %s", gotBody["thinking"])
	}
	if string(gotBody["stream"]) != "true" {
		t.Errorf("stream on wire = %s", gotBody["stream"])
	}
}
