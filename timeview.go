package dam

import "context"

// TimeView is the read-only, blocking-capable face of a context's logical
// clock that its peers hold on to. A context never exposes its TimeManager
// directly; it hands out a TimeView instead.
type TimeView interface {
	// TickLowerBound returns the owner's current time without blocking.
	TickLowerBound() Time

	// WaitUntil blocks the caller until the owner's clock reaches when, or
	// ctx is canceled, and returns whatever time was last observed.
	WaitUntil(ctx context.Context, when Time) Time
}

// basicTimeView is the TimeView backing a single TimeManager.
type basicTimeView struct {
	tm *TimeManager
}

// View returns a TimeView onto tm.
func (tm *TimeManager) View() TimeView {
	return &basicTimeView{tm: tm}
}

func (v *basicTimeView) TickLowerBound() Time {
	return v.tm.Tick()
}

func (v *basicTimeView) WaitUntil(ctx context.Context, when Time) Time {
	return v.tm.wait(ctx, when)
}

// ParentView aggregates the TimeViews of a set of child contexts into one
// view, for composite contexts that delegate work to sub-contexts but still
// need to answer WaitUntil/TickLowerBound as a single unit.
//
// WaitUntil waits for every child individually to reach when (resolving the
// reference implementation's single-child assumption to "wait for all" for
// the general n-child case) and returns the minimum of what was observed,
// matching tick_lower_bound's own all-children-minimum semantics.
type ParentView struct {
	Children []TimeView
}

// NewParentView wraps the given child views.
func NewParentView(children ...TimeView) *ParentView {
	return &ParentView{Children: children}
}

func (p *ParentView) TickLowerBound() Time {
	if len(p.Children) == 0 {
		return Infinite()
	}
	min := p.Children[0].TickLowerBound()
	for _, c := range p.Children[1:] {
		min = Min(min, c.TickLowerBound())
	}
	return min
}

func (p *ParentView) WaitUntil(ctx context.Context, when Time) Time {
	if len(p.Children) == 0 {
		return when
	}
	observed := make([]Time, len(p.Children))
	for i, c := range p.Children {
		observed[i] = c.WaitUntil(ctx, when)
	}
	min := observed[0]
	for _, t := range observed[1:] {
		min = Min(min, t)
	}
	return min
}
