package dam

import (
	"context"
	"testing"
)

func TestTerminatedSenderSilentlyDropsWrites(t *testing.T) {
	var s terminatedSender[int]
	if err := s.Enqueue(context.Background(), nil, ChannelElement[int]{Data: 1}); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if err := s.WaitUntilAvailable(context.Background(), nil); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	s.Close()
}

func TestTerminatedReceiverAlwaysClosed(t *testing.T) {
	var r terminatedReceiver[int]
	if res := r.Peek(); res.Kind != PeekClosed {
		t.Errorf("expected PeekClosed, got %v", res.Kind)
	}
	if _, err := r.PeekNext(context.Background(), nil); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := r.Dequeue(context.Background(), nil); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	r.Close()
}
