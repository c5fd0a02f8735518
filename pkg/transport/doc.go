// Package transport defines the contract between the LightFlow serving
// surface and the relay core, plus cross-cutting middleware.
//
// The central contract is CompletionHandler: it receives a completion
// request and writes the result (streamed updates or a complete response)
// to a ResultWriter. HTTP specifics live in the transport/http subpackage;
// this package stays protocol-agnostic so handlers can be tested without
// a network.
package transport
