package dam

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// signalElement is one pending WaitUntil call, parked until the owning
// TimeManager's clock reaches when. done is closed exactly once, under
// signalMu, to wake the waiter; closing (rather than sending) lets a single
// scan release any number of signals without matching sends to receives.
type signalElement struct {
	when Time
	done chan struct{}
}

// TimeManager owns a context's logical clock and the set of peers currently
// blocked waiting for it to advance. Every leaf Context owns exactly one,
// typically through ContextBase; a ParentContext has none of its own.
//
// The reference implementation parks the OS thread calling wait_until and
// unparks it once scan_and_write_signals observes the clock has caught up,
// double-checking the clock under the signal-list lock both before parking
// and immediately after re-acquiring it on wake to avoid a lost wakeup. This
// type preserves that structure with a per-signal channel in place of
// thread park/unpark: wait blocks on a select over the channel and the
// manager closes it under the same mutex that protects the slice.
type TimeManager struct {
	time *AtomicTime

	mu      sync.Mutex
	signals []*signalElement

	obs *Observability
}

// NewTimeManager returns a TimeManager starting at cycle zero. obs may be
// nil, in which case advances are not reported anywhere.
func NewTimeManager(obs *Observability) *TimeManager {
	return &TimeManager{
		time: &AtomicTime{},
		obs:  obs,
	}
}

// Tick returns the manager's current time without blocking.
func (tm *TimeManager) Tick() Time {
	return tm.time.Load()
}

// IncrCycles advances the clock by n cycles unconditionally and wakes any
// waiter whose target has now been reached.
func (tm *TimeManager) IncrCycles(n uint64) {
	tm.time.IncrCycles(n)
	tm.scanAndWriteSignals()
	tm.emitAdvanced()
}

// Advance raises the clock to at least new, a no-op if the clock is already
// there or past it. Wakes any waiter whose target has now been reached.
func (tm *TimeManager) Advance(new Time) {
	if tm.time.TryAdvance(new) {
		tm.scanAndWriteSignals()
		tm.emitAdvanced()
	}
}

// Cleanup marks the clock as done (infinite) and releases every remaining
// waiter. Called once, when a context's Run loop returns.
func (tm *TimeManager) Cleanup() {
	tm.time.SetInfinite()
	tm.scanAndWriteSignals()
	capitan.Info(context.Background(), SignalTimeCleanup,
		FieldCycles.Field(int(tm.time.Load().Cycles)),
		FieldDone.Field(1),
		FieldTimestamp.Field(float64(tm.now().Unix())),
	)
}

// now reads the wall clock through the shared Observability clock when one
// is configured, falling back to the real clock otherwise. Letting tests
// supply a clockz.FakeClock keeps timestamp-bearing signal assertions
// deterministic.
func (tm *TimeManager) now() time.Time {
	if tm.obs != nil && tm.obs.Clock != nil {
		return tm.obs.Clock.Now()
	}
	return clockz.RealClock.Now()
}

// scanAndWriteSignals releases every pending signal whose target time has
// been reached or passed, under the signal-list lock.
func (tm *TimeManager) scanAndWriteSignals() {
	tlb := tm.time.Load()

	tm.mu.Lock()
	remaining := tm.signals[:0]
	for _, sig := range tm.signals {
		if tlb.AtLeast(sig.when) {
			close(sig.done)
		} else {
			remaining = append(remaining, sig)
		}
	}
	tm.signals = remaining
	tm.mu.Unlock()
}

// parkedCount reports how many peers are currently blocked in wait,
// registered signals awaiting this manager's clock to catch up.
func (tm *TimeManager) parkedCount() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.signals)
}

func (tm *TimeManager) emitAdvanced() {
	if tm.obs == nil {
		return
	}
	tm.obs.Metrics.Counter(MetricTimeAdvanceEvents).Inc()
	capitan.Info(context.Background(), SignalTimeAdvanced,
		FieldCycles.Field(int(tm.time.Load().Cycles)),
		FieldTimestamp.Field(float64(tm.now().Unix())),
		FieldParkedWorkers.Field(tm.parkedCount()),
	)
}

// wait blocks the calling goroutine until the clock reaches when, returning
// the clock value observed at wake (at least when, unless the context was
// canceled first, in which case it returns whatever was last observed).
//
// The clock is checked once before taking the lock (the fast path, true
// forever once it fires since time is non-decreasing) and once again under
// the lock before registering a signal, matching the reference
// implementation's double check: without the second check, a scan that runs
// between the first check and the registration would be missed and the
// waiter would block forever.
func (tm *TimeManager) wait(ctx context.Context, when Time) Time {
	if cur := tm.time.Load(); cur.AtLeast(when) {
		return cur
	}

	if tm.obs != nil {
		_, span := tm.obs.Tracer.StartSpan(context.Background(), SpanWaitUntil)
		span.SetTag(TagWaitUntil, fmt.Sprint(when.Cycles))
		defer span.Finish()
	}

	tm.mu.Lock()
	if cur := tm.time.Load(); cur.AtLeast(when) {
		tm.mu.Unlock()
		return cur
	}
	sig := &signalElement{when: when, done: make(chan struct{})}
	tm.signals = append(tm.signals, sig)
	tm.mu.Unlock()

	if ctx == nil {
		<-sig.done
		return tm.time.Load()
	}

	select {
	case <-sig.done:
		return tm.time.Load()
	case <-ctx.Done():
		return tm.time.Load()
	}
}
