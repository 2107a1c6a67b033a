package dam

// EdgeMap declares a composite context's cross-channel data dependencies
// for SCC analysis: for each sub-node identifier, the channels it reads
// from mapped to the channels that reading can produce output onto.
// Returning (nil, false) from EdgeConnections means "ordinary 1:1 node, use
// my own id" — the common case for leaf contexts.
type EdgeMap map[Identifier]map[ChannelID][]ChannelID

// Context is the unit of simulated work. A context may be a leaf that does
// its own I/O, or a parent that aggregates child contexts (and their
// TimeViews) without doing I/O of its own.
type Context interface {
	// ID returns the context's own identifier, used as the graph node when
	// EdgeConnections reports no finer-grained mapping.
	ID() Identifier

	// Ids returns every identifier this context is known by, covering
	// itself and any nested children, each tagged with a human-readable
	// kind for summary reporting.
	Ids() []VerboseIdentifier

	// EdgeConnections optionally declares, for composite contexts, a
	// mapping from sub-node identifiers to the input channels they read
	// and the output channels that reading can in turn produce onto. The
	// builder uses this to build a finer SCC graph than one node per
	// context.
	EdgeConnections() (EdgeMap, bool)

	// Init runs once, before any Run, in the order contexts were added to
	// the builder.
	Init() error

	// Run executes the simulated work. Called once, on a dedicated
	// goroutine, after every context's Init has returned.
	Run()

	// Cleanup closes owned channel endpoints and marks the context's Time
	// Manager infinite, unblocking every peer's WaitUntil. Called once,
	// immediately after Run returns, even if Run panicked.
	Cleanup()

	// View returns the TimeView peers use to observe and wait on this
	// context's logical clock.
	View() TimeView
}

// ContextBase is the embeddable foundation every leaf Context builds on,
// providing identity and a Time Manager. Embedders get ID, View, a default
// single-node Ids, and a default "ordinary node" EdgeConnections for free;
// they still implement Init/Run/Cleanup themselves, and may shadow Ids or
// EdgeConnections when they wrap children.
type ContextBase struct {
	id Identifier
	tm *TimeManager
}

// NewContextBase draws a fresh identifier and Time Manager for an embedding
// context. obs may be nil.
func NewContextBase(obs *Observability) ContextBase {
	return ContextBase{id: NewIdentifier(), tm: NewTimeManager(obs)}
}

// ID returns the context's identifier.
func (c *ContextBase) ID() Identifier { return c.id }

// TimeManager returns the context's own Time Manager, for the embedding
// type's Run loop to call Tick/IncrCycles/Advance/Cleanup on.
func (c *ContextBase) TimeManager() *TimeManager { return c.tm }

// View returns a TimeView onto this context's Time Manager.
func (c *ContextBase) View() TimeView { return c.tm.View() }

// Ids returns this context's own identifier tagged "context". Embedders
// with nested children should shadow this method.
func (c *ContextBase) Ids() []VerboseIdentifier {
	return []VerboseIdentifier{{ID: c.id, Kind: "context"}}
}

// EdgeConnections reports no fine-grained mapping by default, the common
// case for a leaf context.
func (c *ContextBase) EdgeConnections() (EdgeMap, bool) {
	return nil, false
}

// Cleanup marks the Time Manager infinite. Embedders that own channel
// endpoints should call their endpoints' Close methods and then this.
func (c *ContextBase) Cleanup() {
	c.tm.Cleanup()
}

// ParentContext aggregates child contexts that do no I/O of their own,
// exposing their combined TimeView and identifiers. Useful for grouping a
// pipeline stage's internal helper contexts under one node for summary
// reporting while still giving each child its own thread and clock.
type ParentContext struct {
	id       Identifier
	children []Context
}

// NewParentContext wraps the given children under a fresh identifier.
func NewParentContext(children ...Context) *ParentContext {
	return &ParentContext{id: NewIdentifier(), children: children}
}

func (p *ParentContext) ID() Identifier { return p.id }

func (p *ParentContext) Ids() []VerboseIdentifier {
	ids := []VerboseIdentifier{{ID: p.id, Kind: "parent"}}
	for _, c := range p.children {
		ids = append(ids, c.Ids()...)
	}
	return ids
}

func (p *ParentContext) EdgeConnections() (EdgeMap, bool) {
	return nil, false
}

func (p *ParentContext) Init() error {
	for _, c := range p.children {
		if err := c.Init(); err != nil {
			return err
		}
	}
	return nil
}

func (p *ParentContext) Run() {
	// Children are spawned as independent contexts by the Runner; a
	// ParentContext exists to group them for summary reporting, not to
	// drive their execution itself.
}

func (p *ParentContext) Cleanup() {}

func (p *ParentContext) View() TimeView {
	views := make([]TimeView, len(p.children))
	for i, c := range p.children {
		views[i] = c.View()
	}
	return NewParentView(views...)
}

// Children returns the wrapped child contexts.
func (p *ParentContext) Children() []Context {
	return p.children
}
