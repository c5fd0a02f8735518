package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Decadesice/LightFlow/pkg/api"
	"github.com/Decadesice/LightFlow/pkg/debug"
)

// Client performs HTTP requests against an OpenAI-compatible Chat
// Completions backend. One Client may serve many concurrent calls; each
// call owns its own request, connection, and decoder state.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// New creates a Client for the given backend. The timeout applies only to
// blocking calls; streaming calls rely on context cancellation instead.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	// Normalize: remove trailing slash from base URL.
	baseURL = strings.TrimRight(baseURL, "/")

	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Complete performs a blocking (non-streaming) completion call. It returns
// the decoded backend response, an api_error for non-success statuses, a
// decode_error for schema-mismatched bodies, or a transport_error for
// connection failures. A single attempt is made; retry policy belongs to
// the caller.
func (c *Client) Complete(ctx context.Context, model string, messages []api.Message, reasoning bool) (*api.ChatResponse, error) {
	req := NewChatRequest(model, messages, false, reasoning)

	httpResp, err := c.post(ctx, c.httpClient, req, false)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapHTTPError(httpResp)
	}

	var resp api.ChatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, api.NewDecodeError(fmt.Errorf("parsing backend response: %w", err))
	}
	if err := api.ValidateResponse(&resp); err != nil {
		return nil, api.NewDecodeError(err)
	}

	return &resp, nil
}

// Stream performs a streaming completion call. Normalized updates are
// pushed to the sink synchronously, in arrival order, until the terminal
// [DONE] sentinel or the end of the stream. It returns a transport_error
// if the connection cannot be established or drops mid-stream; updates
// delivered before a mid-stream failure remain valid. A stream that ends
// without the sentinel returns nil and emits no terminal update — callers
// must treat the absence of a Done update as an incomplete stream.
func (c *Client) Stream(ctx context.Context, model string, messages []api.Message, reasoning bool, sink Sink) error {
	req := NewChatRequest(model, messages, true, reasoning)

	// No timeout for streaming: a stream can legitimately outlive any
	// fixed deadline. The context controls the request lifetime.
	streamClient := &http.Client{
		Transport: c.httpClient.Transport,
	}

	httpResp, err := c.post(ctx, streamClient, req, true)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return mapHTTPError(httpResp)
	}

	return decodeStream(ctx, httpResp.Body, sink)
}

// post builds and sends the HTTP request shared by both modes.
func (c *Client) post(ctx context.Context, client *http.Client, req *api.ChatRequest, streaming bool) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, api.NewTransportError(fmt.Errorf("marshaling request: %w", err))
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, api.NewTransportError(fmt.Errorf("creating HTTP request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if streaming {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	debug.Log("relay", "upstream request",
		"url", url,
		"model", req.Model,
		"stream", streaming,
	)
	debug.Raw("relay", string(body))

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, api.NewTransportError(err)
	}
	return httpResp, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
