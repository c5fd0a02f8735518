// Package relay implements the core of the LightFlow gateway: building
// Chat Completions requests, issuing them against an OpenAI-compatible
// backend, and decoding streaming SSE responses into ordered normalized
// updates.
//
// The streaming path is the heart of the package. The response body
// arrives as arbitrary-sized fragments with no alignment to SSE line
// boundaries; a persistent remainder buffer reassembles complete lines
// across fragment splits so that no content is lost or duplicated. See
// the lineBuffer type in stream.go.
//
// Each call owns its own request, connection, and decoder state. There is
// no shared cache, connection reuse policy, retry, or rate limiting;
// callers layer those concerns on top if needed.
package relay
