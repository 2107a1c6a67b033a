package dam

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/zoobzio/capitan"
)

// RunMode selects the OS scheduling discipline the Runner requests for
// each context's goroutine. Go gives no portable equivalent of the
// reference implementation's real-time FIFO thread priority, so FIFO here
// only pins the goroutine to its own OS thread via runtime.LockOSThread;
// it does not raise scheduling priority.
type RunMode int

const (
	// RunModeSimple runs every context under the default Go scheduler.
	RunModeSimple RunMode = iota
	// RunModeFIFO locks each context's goroutine to its own OS thread,
	// trading throughput for more predictable per-context latency.
	RunModeFIFO
)

func (m RunMode) String() string {
	if m == RunModeFIFO {
		return "FIFO"
	}
	return "Simple"
}

// Run spawns one goroutine per top-level context, waits for all of them to
// finish, and returns the resulting Executed summary. A context panicking
// with a *FatalError is recovered and recorded as a failed branch rather
// than crashing the run; any other panic value propagates, since it
// indicates a bug outside the contract this package establishes.
func (p *Initialized) Run(mode RunMode) *Executed {
	summaries := make([]ContextSummary, len(p.contexts))

	var wg sync.WaitGroup
	wg.Add(len(p.contexts))

	if p.obs != nil {
		_, span := p.obs.Tracer.StartSpan(context.Background(), SpanRun)
		span.SetTag(TagRunMode, mode.String())
		defer span.Finish()
	}

	var stopWatchdog func()
	if p.stallTimeout > 0 && p.obs != nil {
		stopWatchdog = p.startStallWatchdog()
	}

	if p.obs != nil {
		capitan.Info(context.Background(), SignalRunnerSpawned,
			FieldContextCount.Field(len(p.contexts)),
		)
	}

	for i, ctx := range p.contexts {
		go func(i int, ctx Context) {
			defer wg.Done()
			summaries[i] = p.runOne(ctx, mode)
		}(i, ctx)
	}

	wg.Wait()
	if stopWatchdog != nil {
		stopWatchdog()
	}

	if p.obs != nil {
		p.obs.Metrics.Gauge(MetricContextsRunning).Set(0)
		capitan.Info(context.Background(), SignalRunnerJoined,
			FieldContextCount.Field(len(p.contexts)),
		)
	}

	return &Executed{obs: p.obs, summaries: summaries}
}

// startStallWatchdog polls the time-advance counter every stallTimeout
// interval; if it hasn't moved since the last poll, the identifiers of every
// top-level context (from Ids) are reported as a DeadlockEvent. This
// is a heuristic, not a cycle-detection proof: a simulation that is simply
// slow, not stuck, can trigger a false positive. Returns a function that
// stops the watchdog.
func (p *Initialized) startStallWatchdog() func() {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		lastAdvances := p.obs.Metrics.Counter(MetricTimeAdvanceEvents).Value()
		for {
			select {
			case <-stop:
				return
			case <-p.obs.Clock.After(p.stallTimeout):
				cur := p.obs.Metrics.Counter(MetricTimeAdvanceEvents).Value()
				if cur == lastAdvances {
					p.reportSuspectedDeadlock()
				}
				lastAdvances = cur
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}

func (p *Initialized) reportSuspectedDeadlock() {
	var suspects []VerboseIdentifier
	for _, ctx := range p.contexts {
		suspects = append(suspects, ctx.Ids()...)
	}
	event := DeadlockEvent{Suspects: suspects, Timestamp: p.obs.Clock.Now()}
	capitan.Warn(context.Background(), SignalRunnerDeadlockGuess,
		FieldContextCount.Field(len(suspects)),
	)
	_ = p.obs.Hooks.Emit(context.Background(), EventDeadlockSuspected, event) //nolint:errcheck
}

// runOne drives a single top-level context through Run and Cleanup on a
// dedicated goroutine, recovering a FatalError panic into a failed summary.
func (p *Initialized) runOne(ctx Context, mode RunMode) (summary ContextSummary) {
	if mode == RunModeFIFO {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	failed := false
	var panicVal any

	var finishSpan func(result string)
	if p.obs != nil {
		_, span := p.obs.Tracer.StartSpan(context.Background(), SpanContext)
		span.SetTag(TagContextID, fmt.Sprint(ctx.ID()))
		span.SetTag(TagContextKind, fmt.Sprintf("%T", ctx))
		finishSpan = func(result string) {
			span.SetTag(TagResult, result)
			span.Finish()
		}
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				panicVal = r
				failed = true
				if p.obs != nil {
					p.obs.Metrics.Counter(MetricContextsPanicked).Inc()
					capitan.Error(context.Background(), SignalRunnerContextPanic,
						FieldIdentifier.Field(fmt.Sprint(ctx.ID())),
						FieldPanicValue.Field(fmt.Sprint(r)),
					)
				}
				if _, ok := r.(*FatalError); !ok {
					// Not one of our own invariant violations; a genuine
					// bug should crash loudly rather than be recorded as
					// an ordinary failed branch.
					panic(r)
				}
			}
		}()
		ctx.Run()
	}()

	ctx.Cleanup()

	if p.obs != nil {
		p.obs.Metrics.Counter(MetricContextsFinished).Inc()
		capitan.Info(context.Background(), SignalRunnerContextDone,
			FieldIdentifier.Field(fmt.Sprint(ctx.ID())),
			FieldContextKind.Field(fmt.Sprintf("%T", ctx)),
		)
	}
	if finishSpan != nil {
		if failed {
			finishSpan("failed")
		} else {
			finishSpan("ok")
		}
	}

	return summarizeContext(ctx, failed, panicVal)
}

// Executed is the terminal state of a simulation run: every context has
// returned from Run and Cleanup.
type Executed struct {
	obs       *Observability
	summaries []ContextSummary
}

// ElapsedCycles returns the latest tick lower bound observed across every
// top-level context and its descendants, or false if the run had no
// contexts.
func (e *Executed) ElapsedCycles() (Time, bool) {
	if len(e.summaries) == 0 {
		return Time{}, false
	}
	max := e.summaries[0].MaxTime()
	for _, s := range e.summaries[1:] {
		if t := s.MaxTime(); max.Less(t) {
			max = t
		}
	}
	return max, true
}

// Summaries returns the per-context report tree produced by the run.
func (e *Executed) Summaries() []ContextSummary {
	return e.summaries
}

// Failed reports whether any context in the run ended in a failed branch.
func (e *Executed) Failed() bool {
	for _, s := range e.summaries {
		if s.Failed {
			return true
		}
	}
	return false
}
