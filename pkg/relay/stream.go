package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/Decadesice/LightFlow/pkg/api"
	"github.com/Decadesice/LightFlow/pkg/debug"
	"github.com/Decadesice/LightFlow/pkg/observability"
)

const (
	// dataPrefix marks SSE event lines carrying a payload.
	dataPrefix = "data: "

	// doneSentinel is the literal payload ending a stream.
	doneSentinel = "[DONE]"

	// readChunkSize is the per-read fragment size. Fragments carry no
	// relation to SSE line boundaries; the lineBuffer reassembles them.
	readChunkSize = 4096
)

// lineBuffer reassembles complete lines from arbitrarily split byte
// fragments. It is the only stateful element of the decoder: the
// unterminated tail of each fragment is retained and prepended to the
// next one, so a line split across reads is never truncated or emitted
// twice. One lineBuffer serves exactly one stream.
type lineBuffer struct {
	buf []byte
}

// feed appends a fragment and returns every newline-terminated line now
// complete, in order. Trailing carriage returns are stripped. Invalid
// UTF-8 inside a line is replaced with U+FFFD rather than failing the
// stream; buffering raw bytes until a full line exists means multi-byte
// sequences split across fragments decode correctly.
func (b *lineBuffer) feed(fragment []byte) []string {
	b.buf = append(b.buf, fragment...)

	var lines []string
	for {
		i := bytes.IndexByte(b.buf, '\n')
		if i < 0 {
			return lines
		}
		line := bytes.TrimSuffix(b.buf[:i], []byte{'\r'})
		lines = append(lines, strings.ToValidUTF8(string(line), "�"))
		b.buf = b.buf[i+1:]
	}
}

// decodeStream reads SSE fragments from body and pushes normalized
// updates to the sink until the [DONE] sentinel or the end of input.
//
// A read failure mid-stream returns a transport_error; updates already
// delivered stand. End of input without the sentinel is treated as a
// graceful (if incomplete) end: the caller observes the missing terminal
// update. Context cancellation is likewise not an error.
func decodeStream(ctx context.Context, body io.Reader, sink Sink) error {
	var lb lineBuffer
	frag := make([]byte, readChunkSize)

	for {
		n, readErr := body.Read(frag)
		if n > 0 {
			debug.Trace("stream", "fragment received", "bytes", n)
			for _, line := range lb.feed(frag[:n]) {
				debug.Raw("stream", line)
				if terminal := handleLine(line, sink); terminal {
					return nil
				}
			}
		}
		if readErr != nil {
			if readErr == io.EOF || ctx.Err() != nil {
				return nil
			}
			return api.NewTransportError(readErr)
		}
	}
}

// handleLine processes one complete SSE line. It reports whether the line
// was the terminal sentinel, after which no further input is consumed.
func handleLine(line string, sink Sink) bool {
	// Lines without the data prefix are keep-alives, comments, or event
	// separators per the SSE convention.
	if !strings.HasPrefix(line, dataPrefix) {
		return false
	}
	payload := strings.TrimPrefix(line, dataPrefix)

	if payload == doneSentinel {
		debug.Log("stream", "sentinel received")
		deliver(sink, api.DoneUpdate())
		return true
	}

	var chunk api.StreamChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		// A single malformed event must not abort a healthy stream.
		observability.MalformedChunksTotal.Inc()
		slog.Warn("skipping malformed stream chunk",
			"error", err.Error(),
			"data", debug.Truncate(payload, 200),
		)
		return false
	}

	if update, ok := normalizeChunk(&chunk); ok {
		deliver(sink, update)
	}
	return false
}

// normalizeChunk maps a chunk's first choice delta to an Update. Absent
// content and reasoning fields stay nil; chunks with no choices produce
// nothing. Pure mapping, no failure modes.
func normalizeChunk(chunk *api.StreamChunk) (api.Update, bool) {
	if len(chunk.Choices) == 0 {
		return api.Update{}, false
	}
	delta := chunk.Choices[0].Delta
	return api.Update{
		Content:          delta.Content,
		ReasoningContent: delta.ReasoningContent,
	}, true
}

// deliver pushes one update to the sink. Delivery is fire-and-forget: a
// sink failure is logged and the stream continues.
func deliver(sink Sink, update api.Update) {
	if err := sink.Notify(update); err != nil {
		slog.Warn("sink refused update", "error", err.Error(), "done", update.Done)
	}
}
