package dam

import (
	"context"
	"fmt"
	"sync"

	"github.com/zoobzio/capitan"
)

// channelHandle is the non-generic face of a ChannelHandle[T], letting the
// builder track every channel it has created regardless of element type for
// endpoint validation, SCC graph construction, and flavor freezing.
type channelHandle interface {
	ID() ChannelID
	Spec() *ChannelSpec
	IsVoid() bool
	SetFlavor(flavor Flavor)
}

// ChannelHandle is the lockable cell backing one channel's sender and
// receiver implementations, letting the Builder hand out Sender[T]/
// Receiver[T] values before a channel's runtime flavor is known and swap
// the underlying implementation once Initialize freezes it. Contexts that
// received a Sender[T]/Receiver[T] at construction time keep using the same
// value; SetFlavor only changes what it delegates to.
type ChannelHandle[T any] struct {
	spec *ChannelSpec
	void bool
	obs  *Observability

	mu       sync.RWMutex
	flavor   Flavor
	sender   Sender[T]
	receiver Receiver[T]
}

// NewChannelHandle creates a handle in the Uninitialized flavor. void
// channels are frozen to the Void flavor later, by Initialize's step 3,
// once every endpoint has had a chance to attach.
func NewChannelHandle[T any](spec *ChannelSpec, void bool, obs *Observability) *ChannelHandle[T] {
	h := &ChannelHandle[T]{
		spec:     spec,
		void:     void,
		obs:      obs,
		flavor:   FlavorUninitialized,
		sender:   uninitializedSender[T]{},
		receiver: uninitializedReceiver[T]{},
	}
	return h
}

// ID returns the underlying channel's identifier.
func (h *ChannelHandle[T]) ID() ChannelID { return h.spec.ID }

// Spec returns the channel's immutable-once-attached metadata.
func (h *ChannelHandle[T]) Spec() *ChannelSpec { return h.spec }

// IsVoid reports whether this handle was created as a void sink.
func (h *ChannelHandle[T]) IsVoid() bool { return h.void }

// Sender returns the Sender[T] value contexts hold onto across flavor
// changes.
func (h *ChannelHandle[T]) Sender() Sender[T] {
	return &senderHandle[T]{h: h}
}

// Receiver returns the Receiver[T] value contexts hold onto across flavor
// changes.
func (h *ChannelHandle[T]) Receiver() Receiver[T] {
	return &receiverHandle[T]{h: h}
}

// SetFlavor swaps the handle's underlying sender and receiver
// implementations to match flavor. Called once by Initialize: in step 3 for
// void handles, after SCC inference for every other handle.
func (h *ChannelHandle[T]) SetFlavor(flavor Flavor) {
	h.mu.Lock()
	defer h.mu.Unlock()

	capacity := 0
	if h.spec.Capacity != nil {
		capacity = *h.spec.Capacity
	}

	switch flavor {
	case FlavorUninitialized:
		fatalf("cannot set flavor to Uninitialized")
	case FlavorTerminated:
		h.sender = terminatedSender[T]{}
		h.receiver = terminatedReceiver[T]{}
	case FlavorVoid:
		h.sender = voidSender[T]{}
		h.receiver = nil
	case FlavorBoundedAcyclic:
		q := newFifo[T](capacity)
		h.sender = newBoundedSender[T](h.spec, q, false)
		h.receiver = newBoundedReceiver[T](h.spec, q, false)
	case FlavorBoundedCyclic:
		q := newFifo[T](capacity)
		h.sender = newBoundedSender[T](h.spec, q, true)
		h.receiver = newBoundedReceiver[T](h.spec, q, true)
	case FlavorInfiniteAcyclic:
		q := newFifo[T](0)
		h.sender = newInfiniteSender[T](h.spec, q)
		h.receiver = newInfiniteReceiver[T](h.spec, q, false)
	case FlavorInfiniteCyclic:
		q := newFifo[T](0)
		h.sender = newInfiniteSender[T](h.spec, q)
		h.receiver = newInfiniteReceiver[T](h.spec, q, true)
	default:
		fatalf("unknown channel flavor %v", flavor)
	}
	h.flavor = flavor

	if h.obs != nil {
		h.obs.Metrics.Gauge(MetricChannelDepth).Set(0)
		capitan.Info(context.Background(), SignalChannelFlavorSet,
			FieldChannelID.Field(fmt.Sprint(h.spec.ID)),
			FieldCapacity.Field(capacity),
			FieldOutstanding.Field(0),
		)
	}
}

// Flavor returns the handle's current flavor.
func (h *ChannelHandle[T]) Flavor() Flavor {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.flavor
}

// Close terminates both halves of the channel, routing through whichever
// flavor is currently installed.
func (h *ChannelHandle[T]) Close() {
	h.mu.RLock()
	sender, receiver := h.sender, h.receiver
	h.mu.RUnlock()
	if sender != nil {
		sender.Close()
	}
	if receiver != nil {
		receiver.Close()
	}
	if h.obs != nil {
		capitan.Info(context.Background(), SignalChannelClosed,
			FieldChannelID.Field(fmt.Sprint(h.spec.ID)),
		)
	}
}

// senderHandle is the stable Sender[T] value a context holds on to; it
// delegates to whatever implementation is currently installed on h.
type senderHandle[T any] struct {
	h *ChannelHandle[T]
}

func (s *senderHandle[T]) current() Sender[T] {
	s.h.mu.RLock()
	defer s.h.mu.RUnlock()
	return s.h.sender
}

func (s *senderHandle[T]) Enqueue(ctx context.Context, tm *TimeManager, elem ChannelElement[T]) error {
	if s.h.obs == nil {
		return s.current().Enqueue(ctx, tm, elem)
	}

	_, span := s.h.obs.Tracer.StartSpan(context.Background(), SpanChannelSend)
	span.SetTag(TagChannelID, fmt.Sprint(s.h.spec.ID))
	span.SetTag(TagChannelFlavor, s.h.Flavor().String())
	err := s.current().Enqueue(ctx, tm, elem)
	span.Finish()

	if err != nil {
		return err
	}
	s.h.obs.Metrics.Counter(MetricChannelEnqueued).Inc()
	capitan.Info(context.Background(), SignalChannelEnqueued,
		FieldChannelID.Field(fmt.Sprint(s.h.spec.ID)),
	)
	return nil
}

func (s *senderHandle[T]) WaitUntilAvailable(ctx context.Context, tm *TimeManager) error {
	return s.current().WaitUntilAvailable(ctx, tm)
}

func (s *senderHandle[T]) Close() {
	s.current().Close()
}

// receiverHandle is the stable Receiver[T] value a context holds on to; it
// delegates to whatever implementation is currently installed on h.
type receiverHandle[T any] struct {
	h *ChannelHandle[T]
}

func (r *receiverHandle[T]) current() Receiver[T] {
	r.h.mu.RLock()
	defer r.h.mu.RUnlock()
	cur := r.h.receiver
	if cur == nil {
		fatalf("receive operation on a void channel")
	}
	return cur
}

func (r *receiverHandle[T]) Peek() PeekResult[T] {
	return r.current().Peek()
}

func (r *receiverHandle[T]) PeekNext(ctx context.Context, tm *TimeManager) (ChannelElement[T], error) {
	elem, err := r.current().PeekNext(ctx, tm)
	return elem, err
}

func (r *receiverHandle[T]) Dequeue(ctx context.Context, tm *TimeManager) (ChannelElement[T], error) {
	if r.h.obs == nil {
		return r.current().Dequeue(ctx, tm)
	}

	_, span := r.h.obs.Tracer.StartSpan(context.Background(), SpanChannelRecv)
	span.SetTag(TagChannelID, fmt.Sprint(r.h.spec.ID))
	span.SetTag(TagChannelFlavor, r.h.Flavor().String())
	elem, err := r.current().Dequeue(ctx, tm)
	span.Finish()

	if err != nil {
		return elem, err
	}
	r.h.obs.Metrics.Counter(MetricChannelDequeued).Inc()
	capitan.Info(context.Background(), SignalChannelDequeued,
		FieldChannelID.Field(fmt.Sprint(r.h.spec.ID)),
	)
	return elem, nil
}

func (r *receiverHandle[T]) Close() {
	r.current().Close()
}

// AttachSender records ctx as the producing context of the channel behind
// s, for endpoint validation and SCC graph construction at Initialize.
// Calling it twice, or on a Sender[T] not backed by a ChannelHandle, is a
// fatal programming error.
func AttachSender[T any](ctx Context, s Sender[T]) {
	h, ok := s.(*senderHandle[T])
	if !ok {
		fatalf("AttachSender called on a sender not backed by a channel handle")
	}
	h.h.spec.AttachSender(ctx.ID(), ctx.View())
}

// AttachReceiver records ctx as the consuming context of the channel behind
// r. Calling it twice, on a Void channel's sender, or on a Receiver[T] not
// backed by a ChannelHandle, is a fatal programming error.
func AttachReceiver[T any](ctx Context, r Receiver[T]) {
	h, ok := r.(*receiverHandle[T])
	if !ok {
		fatalf("AttachReceiver called on a receiver not backed by a channel handle")
	}
	h.h.spec.AttachReceiver(ctx.ID(), ctx.View())
}
