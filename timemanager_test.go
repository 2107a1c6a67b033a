package dam

import (
	"context"
	"testing"
	"time"
)

func TestTimeManagerTickStartsAtZero(t *testing.T) {
	tm := NewTimeManager(nil)
	if got := tm.Tick(); got.Cycles != 0 || got.Done {
		t.Errorf("Tick() = %v, want {0 false}", got)
	}
}

func TestTimeManagerIncrCycles(t *testing.T) {
	tm := NewTimeManager(nil)
	tm.IncrCycles(5)
	if got := tm.Tick(); got.Cycles != 5 {
		t.Errorf("Tick() = %v, want cycles 5", got)
	}
}

func TestTimeManagerWaitUntilAlreadyReached(t *testing.T) {
	tm := NewTimeManager(nil)
	tm.IncrCycles(10)
	got := tm.View().WaitUntil(context.Background(), NewTime(5))
	if got.Cycles != 10 {
		t.Errorf("WaitUntil on already-reached time = %v, want cycles 10", got)
	}
}

func TestTimeManagerWaitUntilBlocksThenWakes(t *testing.T) {
	tm := NewTimeManager(nil)
	view := tm.View()

	woke := make(chan Time, 1)
	go func() {
		woke <- view.WaitUntil(context.Background(), NewTime(5))
	}()

	select {
	case <-woke:
		t.Fatal("WaitUntil returned before the target time was reached")
	case <-time.After(20 * time.Millisecond):
	}

	tm.Advance(NewTime(5))

	select {
	case got := <-woke:
		if !got.AtLeast(NewTime(5)) {
			t.Errorf("WaitUntil woke with %v, want at least cycles 5", got)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitUntil did not wake after Advance")
	}
}

func TestTimeManagerCleanupReleasesWaiters(t *testing.T) {
	tm := NewTimeManager(nil)
	view := tm.View()

	woke := make(chan Time, 1)
	go func() {
		woke <- view.WaitUntil(context.Background(), NewTime(1_000_000))
	}()

	time.Sleep(20 * time.Millisecond)
	tm.Cleanup()

	select {
	case got := <-woke:
		if !got.Done {
			t.Errorf("WaitUntil after Cleanup = %v, want Done", got)
		}
	case <-time.After(time.Second):
		t.Fatal("Cleanup did not release a pending waiter")
	}
}

func TestTimeManagerWaitUntilCanceledContext(t *testing.T) {
	tm := NewTimeManager(nil)
	ctx, cancel := context.WithCancel(context.Background())
	view := tm.View()

	woke := make(chan Time, 1)
	go func() {
		woke <- view.WaitUntil(ctx, NewTime(5))
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case got := <-woke:
		if got.Cycles != 0 {
			t.Errorf("WaitUntil after cancel = %v, want the last observed time", got)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitUntil did not return after context cancellation")
	}
}

func TestParentViewWaitUntilWaitsForAll(t *testing.T) {
	a := NewTimeManager(nil)
	b := NewTimeManager(nil)
	parent := NewParentView(a.View(), b.View())

	woke := make(chan Time, 1)
	go func() {
		woke <- parent.WaitUntil(context.Background(), NewTime(5))
	}()

	a.Advance(NewTime(5))
	select {
	case <-woke:
		t.Fatal("ParentView.WaitUntil returned before every child reached the target")
	case <-time.After(20 * time.Millisecond):
	}

	b.Advance(NewTime(5))
	select {
	case got := <-woke:
		if !got.AtLeast(NewTime(5)) {
			t.Errorf("ParentView.WaitUntil = %v, want at least cycles 5", got)
		}
	case <-time.After(time.Second):
		t.Fatal("ParentView.WaitUntil did not wake once every child reached the target")
	}
}

func TestParentViewTickLowerBoundIsMinimum(t *testing.T) {
	a := NewTimeManager(nil)
	b := NewTimeManager(nil)
	a.IncrCycles(10)
	b.IncrCycles(3)
	parent := NewParentView(a.View(), b.View())
	if got := parent.TickLowerBound(); got.Cycles != 3 {
		t.Errorf("TickLowerBound() = %v, want cycles 3", got)
	}
}

func TestParentViewTickLowerBoundEmptyIsInfinite(t *testing.T) {
	parent := NewParentView()
	if got := parent.TickLowerBound(); !got.IsInfinite() {
		t.Errorf("TickLowerBound() on empty ParentView = %v, want infinite", got)
	}
}
