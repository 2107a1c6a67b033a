package dam

import "fmt"

// Time is a logical cycle count paired with a "done" flag marking a
// terminated producer. Two done times compare equal to each other; any done
// time compares greater than any not-done time; otherwise times compare by
// Cycles. The done flag lets "wait until peer reaches T" succeed forever
// once a peer has finished, instead of requiring a separate termination
// check at every call site.
type Time struct {
	Cycles uint64
	Done   bool
}

// NewTime returns a finite time at the given cycle count.
func NewTime(cycles uint64) Time {
	return Time{Cycles: cycles}
}

// Infinite returns the terminated/"done" time. Its cycle count is
// unspecified (zero) and never compared once Done is set.
func Infinite() Time {
	return Time{Done: true}
}

// IsInfinite reports whether t marks a terminated producer.
func (t Time) IsInfinite() bool {
	return t.Done
}

// Compare returns -1, 0, or 1 as t is less than, equal to, or greater than
// other, under the total order described on Time.
func (t Time) Compare(other Time) int {
	if t.Done && other.Done {
		return 0
	}
	if t.Done {
		return 1
	}
	if other.Done {
		return -1
	}
	switch {
	case t.Cycles < other.Cycles:
		return -1
	case t.Cycles > other.Cycles:
		return 1
	default:
		return 0
	}
}

// Less reports whether t orders strictly before other.
func (t Time) Less(other Time) bool { return t.Compare(other) < 0 }

// AtLeast reports whether t orders at or after other.
func (t Time) AtLeast(other Time) bool { return t.Compare(other) >= 0 }

// Equal reports whether t and other compare equal.
func (t Time) Equal(other Time) bool { return t.Compare(other) == 0 }

// Add advances a finite time by n cycles. The done flag passes through
// unchanged; adding cycles to an already-infinite time is a no-op on the
// visible value since infinite times never compare by cycle count.
func (t Time) Add(n uint64) Time {
	return Time{Cycles: t.Cycles + n, Done: t.Done}
}

// AddTime adds two times together, summing cycles and OR-ing the done
// flags. Mirrors the reference implementation's Add<Time> overload, kept
// alongside Add(uint64) for the rarer case of combining two Time values
// (e.g. a latency expressed as a Time rather than a bare cycle count).
func (t Time) AddTime(other Time) Time {
	return Time{Cycles: t.Cycles + other.Cycles, Done: t.Done || other.Done}
}

// Max returns the later of a and b.
func Max(a, b Time) Time {
	if a.Compare(b) >= 0 {
		return a
	}
	return b
}

// Min returns the earlier of a and b.
func Min(a, b Time) Time {
	if a.Compare(b) <= 0 {
		return a
	}
	return b
}

// String renders a finite time as its cycle count and an infinite time as
// "inf<cycles>", matching the reference Display impl's "inf {time}" form.
func (t Time) String() string {
	if t.Done {
		return fmt.Sprintf("inf%d", t.Cycles)
	}
	return fmt.Sprintf("%d", t.Cycles)
}
