package dam

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Metric keys published by a running simulation.
const (
	MetricChannelDepth      = metricz.Key("dam.channel.depth")
	MetricChannelEnqueued   = metricz.Key("dam.channel.enqueued.total")
	MetricChannelDequeued   = metricz.Key("dam.channel.dequeued.total")
	MetricContextsRunning   = metricz.Key("dam.contexts.running")
	MetricContextsFinished  = metricz.Key("dam.contexts.finished.total")
	MetricContextsPanicked  = metricz.Key("dam.contexts.panicked.total")
	MetricTimeAdvanceEvents = metricz.Key("dam.time.advance.total")
)

// Span keys for a running simulation.
const (
	SpanRun          = tracez.Key("dam.run")
	SpanContext      = tracez.Key("dam.context")
	SpanChannelSend  = tracez.Key("dam.channel.send")
	SpanChannelRecv  = tracez.Key("dam.channel.recv")
	SpanWaitUntil    = tracez.Key("dam.wait_until")
	TagContextKind   = tracez.Tag("dam.context.kind")
	TagContextID     = tracez.Tag("dam.context.id")
	TagChannelID     = tracez.Tag("dam.channel.id")
	TagChannelFlavor = tracez.Tag("dam.channel.flavor")
	TagRunMode       = tracez.Tag("dam.run.mode")
	TagResult        = tracez.Tag("dam.result")
	TagWaitUntil     = tracez.Tag("dam.wait_until.target_cycles")
)

// DeadlockEvent is emitted through the kernel's hooks registry whenever the
// runner suspects a subset of contexts has stalled waiting on each other.
// Detection is heuristic (a timer-based stall check), not a proof, so
// consumers should treat it as a diagnostic, not a guarantee.
type DeadlockEvent struct {
	Suspects  []VerboseIdentifier
	Timestamp time.Time
}

// EventDeadlockSuspected is the hookz key for DeadlockEvent notifications.
const EventDeadlockSuspected = hookz.Key("dam.deadlock.suspected")

// Observability bundles the metrics, tracing, and hook registries shared by
// every context and channel in one simulation run. A zero-value
// Observability is not usable; construct one with NewObservability.
type Observability struct {
	Clock   clockz.Clock
	Metrics *metricz.Registry
	Tracer  *tracez.Tracer
	Hooks   *hookz.Hooks[DeadlockEvent]
}

// NewObservability wires up a fresh registry set with the kernel's known
// metric keys pre-registered, the way a connector's constructor preregisters
// its own counters and gauges.
func NewObservability() *Observability {
	registry := metricz.New()
	registry.Counter(MetricChannelEnqueued)
	registry.Counter(MetricChannelDequeued)
	registry.Counter(MetricContextsFinished)
	registry.Counter(MetricContextsPanicked)
	registry.Counter(MetricTimeAdvanceEvents)
	registry.Gauge(MetricChannelDepth)
	registry.Gauge(MetricContextsRunning)

	return &Observability{
		Clock:   clockz.RealClock,
		Metrics: registry,
		Tracer:  tracez.New(),
		Hooks:   hookz.New[DeadlockEvent](),
	}
}

// OnDeadlockSuspected registers a handler invoked whenever the runner
// suspects a stall. Mirrors the On<Event> registration methods the rest of
// this module's dependency stack exposes on its own connectors.
func (o *Observability) OnDeadlockSuspected(handler func(context.Context, DeadlockEvent) error) error {
	_, err := o.Hooks.Hook(EventDeadlockSuspected, handler)
	return err
}

// Close releases the tracer and hooks registry. Safe to call once per
// simulation run, typically from Executed or deferred in Initialize's
// caller.
func (o *Observability) Close() error {
	if o.Tracer != nil {
		o.Tracer.Close()
	}
	if o.Hooks != nil {
		o.Hooks.Close()
	}
	return nil
}
