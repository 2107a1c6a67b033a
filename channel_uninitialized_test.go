package dam

import (
	"context"
	"testing"
)

func expectFatal(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Errorf("%s: expected a fatal panic, got none", name)
			return
		}
		if _, ok := r.(*FatalError); !ok {
			t.Errorf("%s: expected *FatalError, got %T", name, r)
		}
	}()
	f()
}

func TestUninitializedSenderAlwaysFatal(t *testing.T) {
	var s uninitializedSender[int]
	expectFatal(t, "Enqueue", func() {
		_ = s.Enqueue(context.Background(), nil, ChannelElement[int]{})
	})
	expectFatal(t, "WaitUntilAvailable", func() {
		_ = s.WaitUntilAvailable(context.Background(), nil)
	})
	expectFatal(t, "Close", func() {
		s.Close()
	})
}

func TestUninitializedReceiverAlwaysFatal(t *testing.T) {
	var r uninitializedReceiver[int]
	expectFatal(t, "Peek", func() {
		_ = r.Peek()
	})
	expectFatal(t, "PeekNext", func() {
		_, _ = r.PeekNext(context.Background(), nil)
	})
	expectFatal(t, "Dequeue", func() {
		_, _ = r.Dequeue(context.Background(), nil)
	})
	expectFatal(t, "Close", func() {
		r.Close()
	})
}
