package dam

import "github.com/zoobzio/capitan"

// Signal constants for kernel events. Signals follow the pattern
// <component>.<event>, mirroring the convention the rest of this module's
// dependency stack uses for its own connectors.
const (
	// Time manager signals.
	SignalTimeAdvanced capitan.Signal = "time.advanced"
	SignalTimeCleanup  capitan.Signal = "time.cleanup"

	// Channel signals.
	SignalChannelEnqueued  capitan.Signal = "channel.enqueued"
	SignalChannelDequeued  capitan.Signal = "channel.dequeued"
	SignalChannelClosed    capitan.Signal = "channel.closed"
	SignalChannelFlavorSet capitan.Signal = "channel.flavor-set"

	// Builder signals.
	SignalBuilderInitialized capitan.Signal = "builder.initialized"

	// Runner signals.
	SignalRunnerSpawned       capitan.Signal = "runner.spawned"
	SignalRunnerContextPanic  capitan.Signal = "runner.context-panic"
	SignalRunnerContextDone   capitan.Signal = "runner.context-done"
	SignalRunnerJoined        capitan.Signal = "runner.joined"
	SignalRunnerDeadlockGuess capitan.Signal = "runner.suspected-deadlock"
)

// Common field keys used across kernel signals.
var (
	FieldIdentifier = capitan.NewStringKey("identifier")
	FieldChannelID  = capitan.NewStringKey("channel_id")
	FieldCycles     = capitan.NewIntKey("cycles")
	FieldDone       = capitan.NewIntKey("done")
	FieldTimestamp  = capitan.NewFloat64Key("timestamp")

	FieldCapacity    = capitan.NewIntKey("capacity")
	FieldOutstanding = capitan.NewIntKey("outstanding")

	FieldChannelCount = capitan.NewIntKey("channel_count")
	FieldCyclicCount  = capitan.NewIntKey("cyclic_count")
	FieldAcyclicCount = capitan.NewIntKey("acyclic_count")

	FieldContextCount  = capitan.NewIntKey("context_count")
	FieldContextKind   = capitan.NewStringKey("context_kind")
	FieldPanicValue    = capitan.NewStringKey("panic")
	FieldParkedWorkers = capitan.NewIntKey("parked_workers")
)
