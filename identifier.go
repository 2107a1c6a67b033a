package dam

import (
	"fmt"
	"sync/atomic"
)

// idCounter is the process-wide monotonic source for both context and
// channel identifiers. Ids are never recycled.
var idCounter atomic.Uint64

// Identifier uniquely names a context or a channel for the lifetime of the
// process. Values are assigned from a single global counter so contexts and
// channels share one id space, matching the source's Identifier/ChannelID
// split being purely nominal rather than two independent counters.
type Identifier uint64

// NewIdentifier draws the next identifier from the process-wide counter.
func NewIdentifier() Identifier {
	return Identifier(idCounter.Add(1))
}

// String renders the identifier the way the reference implementation does,
// e.g. "ID_42".
func (id Identifier) String() string {
	return fmt.Sprintf("ID_%d", uint64(id))
}

// ChannelID names a channel. It is a distinct type from Identifier so the
// graph built during flavor inference can't accidentally conflate a channel
// node with a context node, even though both draw from the same counter.
type ChannelID uint64

// NewChannelID draws the next channel identifier from the process-wide
// counter.
func NewChannelID() ChannelID {
	return ChannelID(idCounter.Add(1))
}

// String renders the channel identifier as e.g. "CH_7".
func (id ChannelID) String() string {
	return fmt.Sprintf("CH_%d", uint64(id))
}

// VerboseIdentifier pairs an Identifier with a human-readable kind, used in
// ContextSummary trees and in ids() reporting from Context implementations.
type VerboseIdentifier struct {
	ID   Identifier
	Kind string
}
