package dam

import "sync/atomic"

// AtomicTime stores a Time with lock-free reads and writes, safe for one
// writer (the owning TimeManager) and many concurrent readers. Cycles and
// Done are stored in separate atomics rather than packed into one word:
// TryAdvance needs to OR the done bit independently of whether the cycle
// count actually moved, which a single packed CAS would make awkward to
// express as a retry loop.
type AtomicTime struct {
	cycles atomic.Uint64
	done   atomic.Bool
}

// Load reads the current time.
func (a *AtomicTime) Load() Time {
	return Time{Cycles: a.cycles.Load(), Done: a.done.Load()}
}

// SetInfinite monotonically marks the time as done. Safe to call more than
// once; later calls are no-ops.
func (a *AtomicTime) SetInfinite() {
	a.done.Store(true)
}

// TryAdvance raises the stored cycle count to at least rhs.Cycles and ORs
// in rhs.Done, returning true iff the stored value actually moved (cycle
// count increased, or done transitioned from false to true). Once done is
// already set, advancing cycles further has no observable effect, since
// comparisons against a done time never look at cycles.
func (a *AtomicTime) TryAdvance(rhs Time) bool {
	if a.done.Load() {
		return false
	}

	moved := false
	for {
		old := a.cycles.Load()
		if old >= rhs.Cycles {
			break
		}
		if a.cycles.CompareAndSwap(old, rhs.Cycles) {
			moved = true
			break
		}
	}
	if rhs.Done && !a.done.Swap(true) {
		moved = true
	}
	return moved
}

// IncrCycles unconditionally advances the stored cycle count by n. Used for
// a context's own forward progress, where the new value is always greater
// than the old by construction and no comparison against a candidate value
// is needed.
func (a *AtomicTime) IncrCycles(n uint64) {
	a.cycles.Add(n)
}
