package dam

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/capitan"
)

// Options configures Builder.Initialize.
type Options struct {
	// RunFlavorInference enables SCC-based acyclic/cyclic flavor selection
	// (§4.F step 4). When false every non-void channel is frozen to the
	// cyclic variant of its capacity class, the safe default.
	RunFlavorInference bool

	// DeadlockStallThreshold, if nonzero, is how long Run's watchdog waits
	// with no recorded time advancement before emitting a DeadlockEvent
	// through the builder's Observability hooks. Zero disables the
	// watchdog entirely.
	DeadlockStallThreshold time.Duration
}

// DefaultOptions returns the Options a caller gets by not customizing
// anything: flavor inference on.
func DefaultOptions() Options {
	return Options{RunFlavorInference: true}
}

// Builder collects contexts and channel handles and freezes them into a
// runnable Initialized program. A Builder is consumed by Initialize: do not
// reuse one across multiple programs.
type Builder struct {
	obs       *Observability
	contexts  []Context
	edges     []channelHandle
	voidEdges []channelHandle
}

// NewBuilder returns an empty Builder with a fresh Observability registry.
func NewBuilder() *Builder {
	return &Builder{obs: NewObservability()}
}

// Observability exposes the builder's metrics/tracing/hooks registry, so
// callers can register hooks (e.g. OnDeadlockSuspected) before Initialize.
func (b *Builder) Observability() *Observability {
	return b.obs
}

// AddChild registers ctx as a top-level context. The runner spawns one
// goroutine per context added this way, in insertion order for Init.
func (b *Builder) AddChild(ctx Context) {
	b.contexts = append(b.contexts, ctx)
}

func boundedLatency[T any](b *Builder, capacity int, forward, resp uint64) (Sender[T], Receiver[T]) {
	cap := capacity
	spec := NewChannelSpec(&cap, forward, resp)
	h := NewChannelHandle[T](spec, false, b.obs)
	b.edges = append(b.edges, h)
	return h.Sender(), h.Receiver()
}

func unboundedLatency[T any](b *Builder, forward, resp uint64) (Sender[T], Receiver[T]) {
	spec := NewChannelSpec(nil, forward, resp)
	h := NewChannelHandle[T](spec, false, b.obs)
	b.edges = append(b.edges, h)
	return h.Sender(), h.Receiver()
}

// Bounded creates a capacity-limited channel with zero latency.
func Bounded[T any](b *Builder, capacity int) (Sender[T], Receiver[T]) {
	return boundedLatency[T](b, capacity, 0, 0)
}

// BoundedWithLatency creates a capacity-limited channel with the given
// forward and response latencies.
func BoundedWithLatency[T any](b *Builder, capacity int, forward, resp uint64) (Sender[T], Receiver[T]) {
	return boundedLatency[T](b, capacity, forward, resp)
}

// Unbounded creates an unbounded channel with zero latency.
func Unbounded[T any](b *Builder) (Sender[T], Receiver[T]) {
	return unboundedLatency[T](b, 0, 0)
}

// UnboundedWithLatency creates an unbounded channel with the given forward
// and response latencies.
func UnboundedWithLatency[T any](b *Builder, forward, resp uint64) (Sender[T], Receiver[T]) {
	return unboundedLatency[T](b, forward, resp)
}

// Void creates a sink channel: a Sender with no corresponding receiver,
// accepting every write without delay, capacity, or latency.
func Void[T any](b *Builder) Sender[T] {
	spec := NewChannelSpec(nil, 0, 0)
	h := NewChannelHandle[T](spec, true, b.obs)
	b.voidEdges = append(b.voidEdges, h)
	return h.Sender()
}

// Initialized is the result of a successful Builder.Initialize: every
// channel's flavor is frozen and every context has run Init.
type Initialized struct {
	obs          *Observability
	contexts     []Context
	edges        []channelHandle
	stallTimeout time.Duration
}

// allNodeIDs flattens every context's Ids() into a set, the universe
// against which channel endpoint ids are validated.
func (b *Builder) allNodeIDs() map[Identifier]struct{} {
	set := make(map[Identifier]struct{})
	for _, ctx := range b.contexts {
		for _, vid := range ctx.Ids() {
			set[vid.ID] = struct{}{}
		}
	}
	return set
}

// Initialize validates the graph, freezes every channel's flavor, and runs
// Init on every context in insertion order. See §4.F for the exact steps.
func (b *Builder) Initialize(opts Options) (*Initialized, error) {
	// Step 1: endpoint check.
	for _, e := range b.edges {
		spec := e.Spec()
		if spec.SenderID() == nil {
			return nil, &DisconnectedSenderError{Channel: spec.ID}
		}
		if spec.ReceiverID() == nil {
			return nil, &DisconnectedReceiverError{Channel: spec.ID}
		}
	}
	for _, e := range b.voidEdges {
		spec := e.Spec()
		if spec.SenderID() == nil {
			return nil, &DisconnectedSenderError{Channel: spec.ID}
		}
		if spec.ReceiverID() != nil {
			fatalf("void channel %s has a receiver attached", spec.ID)
		}
	}

	// Step 2: registered-node check.
	known := b.allNodeIDs()
	for _, e := range append(append([]channelHandle{}, b.edges...), b.voidEdges...) {
		spec := e.Spec()
		if id := spec.SenderID(); id != nil {
			if _, ok := known[*id]; !ok {
				return nil, &UnregisteredNodeError{Channel: spec.ID, Context: *id}
			}
		}
		if id := spec.ReceiverID(); id != nil {
			if _, ok := known[*id]; !ok {
				return nil, &UnregisteredNodeError{Channel: spec.ID, Context: *id}
			}
		}
	}

	// Step 3: void flavors.
	for _, e := range b.voidEdges {
		e.SetFlavor(FlavorVoid)
	}

	// Step 4: flavor inference.
	cyclicCount, acyclicCount := 0, 0
	if opts.RunFlavorInference {
		cyclic := b.inferCyclicChannels()
		for _, e := range b.edges {
			spec := e.Spec()
			isCyclic := false
			if _, ok := cyclic[spec.ID]; ok {
				isCyclic = true
			}
			e.SetFlavor(resolveFlavor(spec, isCyclic))
			if isCyclic {
				cyclicCount++
			} else {
				acyclicCount++
			}
		}
	} else {
		for _, e := range b.edges {
			e.SetFlavor(resolveFlavor(e.Spec(), true))
		}
		cyclicCount = len(b.edges)
	}

	if b.obs != nil {
		b.obs.Metrics.Gauge(MetricContextsRunning).Set(float64(len(b.contexts)))
	}

	// Step 5: init, in insertion order.
	for _, ctx := range b.contexts {
		if err := ctx.Init(); err != nil {
			return nil, fmt.Errorf("dam: init failed: %w", err)
		}
	}

	if b.obs != nil {
		capitan.Info(context.Background(), SignalBuilderInitialized,
			FieldContextCount.Field(len(b.contexts)),
			FieldChannelCount.Field(len(b.edges)+len(b.voidEdges)),
			FieldCyclicCount.Field(cyclicCount),
			FieldAcyclicCount.Field(acyclicCount),
		)
	}

	return &Initialized{obs: b.obs, contexts: b.contexts, edges: b.edges, stallTimeout: opts.DeadlockStallThreshold}, nil
}

func resolveFlavor(spec *ChannelSpec, cyclic bool) Flavor {
	if spec.Capacity != nil {
		if cyclic {
			return FlavorBoundedCyclic
		}
		return FlavorBoundedAcyclic
	}
	if cyclic {
		return FlavorInfiniteCyclic
	}
	return FlavorInfiniteAcyclic
}

// inferCyclicChannels builds the bipartite context/channel graph described
// in §4.F step 4 and returns the set of channel ids sitting in a
// non-trivial SCC.
func (b *Builder) inferCyclicChannels() map[ChannelID]struct{} {
	g := newSCCGraph()
	manuallyManaged := make(map[Identifier]struct{})

	for _, ctx := range b.contexts {
		mapping, ok := ctx.EdgeConnections()
		if !ok {
			continue
		}
		for subNode, edges := range mapping {
			manuallyManaged[subNode] = struct{}{}
			sub := contextNode(subNode)
			for input, outputs := range edges {
				g.addEdge(channelNode(input), sub)
				for _, output := range outputs {
					g.addEdge(sub, channelNode(output))
				}
			}
		}
	}

	for _, e := range b.edges {
		spec := e.Spec()
		src := *spec.SenderID()
		dst := *spec.ReceiverID()
		ch := channelNode(spec.ID)
		if _, ok := manuallyManaged[src]; !ok {
			g.addEdge(contextNode(src), ch)
		}
		if _, ok := manuallyManaged[dst]; !ok {
			g.addEdge(ch, contextNode(dst))
		}
	}

	return cyclicChannels(g)
}

// Contexts returns the contexts this program was built from, for the
// Runner to spawn.
func (i *Initialized) Contexts() []Context { return i.contexts }
