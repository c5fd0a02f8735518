package transport

import (
	"context"
	"testing"
)

func TestInFlightCancelAll(t *testing.T) {
	r := NewInFlightRegistry()

	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	r.Register("req_a", cancel1)
	r.Register("req_b", cancel2)

	if n := r.Len(); n != 2 {
		t.Fatalf("Len() = %d, want 2", n)
	}

	if n := r.CancelAll(); n != 2 {
		t.Fatalf("CancelAll() = %d, want 2", n)
	}
	if ctx1.Err() == nil || ctx2.Err() == nil {
		t.Error("contexts were not cancelled")
	}
	if n := r.Len(); n != 0 {
		t.Errorf("Len() after CancelAll = %d, want 0", n)
	}
}

func TestInFlightRemoveDoesNotCancel(t *testing.T) {
	r := NewInFlightRegistry()

	ctx, cancel := context.WithCancel(context.Background())
	r.Register("req_a", cancel)
	r.Remove("req_a")

	if ctx.Err() != nil {
		t.Error("Remove cancelled the context")
	}
	if n := r.CancelAll(); n != 0 {
		t.Errorf("CancelAll() after Remove = %d, want 0", n)
	}
}
