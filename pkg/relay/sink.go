package relay

import (
	"errors"

	"github.com/Decadesice/LightFlow/pkg/api"
)

// Sink is the boundary to the hosting application. Notify is called once
// per normalized update, in arrival order, synchronously from the decode
// loop. Returning an error marks the update as refused; the relay logs it
// and continues — a sink failure never aborts stream consumption.
type Sink interface {
	Notify(update api.Update) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(update api.Update) error

// Notify implements Sink.
func (f SinkFunc) Notify(update api.Update) error {
	return f(update)
}

// ErrSinkFull is returned by ChannelSink when its buffer is exhausted.
var ErrSinkFull = errors.New("update channel is full")

// ChannelSink forwards updates to a buffered channel without blocking the
// decode loop. Updates that arrive while the buffer is full are refused
// (and dropped by the relay), keeping delivery fire-and-forget.
type ChannelSink struct {
	ch chan api.Update
}

// NewChannelSink creates a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan api.Update, buffer)}
}

// Notify implements Sink.
func (s *ChannelSink) Notify(update api.Update) error {
	select {
	case s.ch <- update:
		return nil
	default:
		return ErrSinkFull
	}
}

// Updates returns the receive side of the channel.
func (s *ChannelSink) Updates() <-chan api.Update {
	return s.ch
}

// Close closes the channel. Call only after the stream has finished.
func (s *ChannelSink) Close() {
	close(s.ch)
}
