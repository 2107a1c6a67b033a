package dam

// ContextSummary reports one context's observed clock and, for parent
// contexts, its children's summaries, after a run completes.
type ContextSummary struct {
	ID       VerboseIdentifier
	Time     TimeView
	Children []ContextSummary
	Failed   bool
	Panic    any
}

// MaxTime returns the latest tick lower bound across this summary and every
// descendant, the contribution this branch of the context tree makes to
// Executed.ElapsedCycles. The result is always finite: a context's view is
// done after Cleanup, but what this reports is the simulated cycle count it
// reached, not its termination state, so comparisons are by cycle count
// rather than the total order that ranks every done time above every
// not-done one.
func (s ContextSummary) MaxTime() Time {
	max := s.Time.TickLowerBound().Cycles
	for _, child := range s.Children {
		if t := child.MaxTime().Cycles; t > max {
			max = t
		}
	}
	return NewTime(max)
}

func summarizeContext(ctx Context, failed bool, panicVal any) ContextSummary {
	ids := ctx.Ids()
	id := VerboseIdentifier{Kind: "context"}
	if len(ids) > 0 {
		id = ids[0]
	}

	var children []ContextSummary
	if parent, ok := ctx.(*ParentContext); ok {
		for _, child := range parent.Children() {
			children = append(children, summarizeContext(child, false, nil))
		}
	}

	return ContextSummary{
		ID:       id,
		Time:     ctx.View(),
		Children: children,
		Failed:   failed,
		Panic:    panicVal,
	}
}
