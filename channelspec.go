package dam

import (
	"context"
	"sync"
)

// Flavor names the concrete runtime behavior a channel has been frozen to.
type Flavor int

const (
	// FlavorUninitialized is the state every channel starts in. Every
	// operation other than attach is a fatal programming error.
	FlavorUninitialized Flavor = iota
	// FlavorTerminated is set after cleanup; reads return Closed, writes
	// are silently dropped.
	FlavorTerminated
	// FlavorVoid marks a sink with no receiver: writes are accepted without
	// delay, capacity, or latency.
	FlavorVoid
	// FlavorBoundedAcyclic is a capacity-limited channel whose node does
	// not sit in any cycle of the dataflow graph.
	FlavorBoundedAcyclic
	// FlavorBoundedCyclic is a capacity-limited channel whose node sits in
	// a cycle, requiring full bidirectional backpressure signalling.
	FlavorBoundedCyclic
	// FlavorInfiniteAcyclic is an unbounded channel outside any cycle.
	FlavorInfiniteAcyclic
	// FlavorInfiniteCyclic is an unbounded channel inside a cycle.
	FlavorInfiniteCyclic
)

func (f Flavor) String() string {
	switch f {
	case FlavorUninitialized:
		return "Uninitialized"
	case FlavorTerminated:
		return "Terminated"
	case FlavorVoid:
		return "Void"
	case FlavorBoundedAcyclic:
		return "BoundedAcyclic"
	case FlavorBoundedCyclic:
		return "BoundedCyclic"
	case FlavorInfiniteAcyclic:
		return "InfiniteAcyclic"
	case FlavorInfiniteCyclic:
		return "InfiniteCyclic"
	default:
		return "Unknown"
	}
}

// IsBounded reports whether f enforces a capacity limit.
func (f Flavor) IsBounded() bool {
	return f == FlavorBoundedAcyclic || f == FlavorBoundedCyclic
}

// IsCyclic reports whether f sits inside a non-trivial SCC of the dataflow
// graph.
func (f Flavor) IsCyclic() bool {
	return f == FlavorBoundedCyclic || f == FlavorInfiniteCyclic
}

// ChannelSpec is the immutable-once-attached metadata shared by a channel's
// sender and receiver halves and by its handle. Capacity and the two
// latencies are fixed at construction; SenderID/ReceiverID and the
// corresponding views are write-once, set by the Builder as contexts attach
// to the channel's endpoints.
type ChannelSpec struct {
	ID ChannelID

	// Capacity is nil for unbounded channels.
	Capacity *int

	ForwardLatency  uint64
	ResponseLatency uint64

	mu         sync.Mutex
	senderID   *Identifier
	receiverID *Identifier
	senderView TimeView
	recvView   TimeView
}

// NewChannelSpec builds a spec with the given capacity (nil for unbounded)
// and latencies.
func NewChannelSpec(capacity *int, forwardLatency, responseLatency uint64) *ChannelSpec {
	return &ChannelSpec{
		ID:              NewChannelID(),
		Capacity:        capacity,
		ForwardLatency:  forwardLatency,
		ResponseLatency: responseLatency,
	}
}

// AttachSender records the producing context's identifier and view. Calling
// it twice is a fatal programming error.
func (s *ChannelSpec) AttachSender(id Identifier, view TimeView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.senderID != nil {
		fatalf("channel %s already has a sender attached", s.ID)
	}
	s.senderID = &id
	s.senderView = view
}

// AttachReceiver records the consuming context's identifier and view.
// Calling it twice is a fatal programming error.
func (s *ChannelSpec) AttachReceiver(id Identifier, view TimeView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.receiverID != nil {
		fatalf("channel %s already has a receiver attached", s.ID)
	}
	s.receiverID = &id
	s.recvView = view
}

// SenderID returns the attached sender's id, or nil if unattached.
func (s *ChannelSpec) SenderID() *Identifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.senderID
}

// ReceiverID returns the attached receiver's id, or nil if unattached.
func (s *ChannelSpec) ReceiverID() *Identifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.receiverID
}

// WaitUntilSender blocks until the sender's time view reaches at least
// recvTime, returning whatever time was observed. Used by a receiver that
// has nothing buffered to decide how long it may safely wait before
// checking again.
func (s *ChannelSpec) WaitUntilSender(ctx context.Context, recvTime Time) Time {
	s.mu.Lock()
	view := s.senderView
	s.mu.Unlock()
	if view == nil {
		return recvTime
	}
	return view.WaitUntil(ctx, recvTime)
}

// WaitUntilReceiver blocks until the receiver's time view reaches at least
// freeAt, returning whatever time was observed. Used by a bounded sender
// waiting for a dequeued slot's response latency to elapse before reusing
// it.
func (s *ChannelSpec) WaitUntilReceiver(ctx context.Context, freeAt Time) Time {
	s.mu.Lock()
	view := s.recvView
	s.mu.Unlock()
	if view == nil {
		return freeAt
	}
	return view.WaitUntil(ctx, freeAt)
}
