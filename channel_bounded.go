package dam

import "context"

// boundedSender is the Sender half shared by BoundedAcyclic and
// BoundedCyclic. A single type implements both, tagged by cyclic: the flag
// decides whether a slot's free time is recorded at enqueue (cyclic) or at
// dequeue (acyclic), see fifo, and how the paired boundedReceiver computes a
// PeekNothing bound.
type boundedSender[T any] struct {
	spec   *ChannelSpec
	q      *fifo[T]
	cyclic bool
}

func newBoundedSender[T any](spec *ChannelSpec, q *fifo[T], cyclic bool) *boundedSender[T] {
	return &boundedSender[T]{spec: spec, q: q, cyclic: cyclic}
}

func (s *boundedSender[T]) Enqueue(ctx context.Context, tm *TimeManager, elem ChannelElement[T]) error {
	if err := s.WaitUntilAvailable(ctx, tm); err != nil {
		return err
	}
	elem.Time = Max(elem.Time, tm.Tick().Add(s.spec.ForwardLatency))
	freeAt := elem.Time.Add(s.spec.ResponseLatency)
	return s.q.push(ctx, elem, freeAt, s.cyclic)
}

func (s *boundedSender[T]) WaitUntilAvailable(ctx context.Context, tm *TimeManager) error {
	for {
		full, hasFree, closed, freeAt := s.q.capacitySnapshot()
		if closed {
			return ErrReceiverGone
		}
		if !full {
			return nil
		}
		if !hasFree {
			if err := s.q.waitForPop(ctx); err != nil {
				return err
			}
			continue
		}
		s.q.waitReceiverOrClose(ctx, s.spec, freeAt)
		if ctx != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		s.q.consumeFree(freeAt)
	}
}

func (s *boundedSender[T]) Close() {
	s.q.closeSender()
}

// boundedReceiver is the Receiver half shared by BoundedAcyclic and
// BoundedCyclic.
type boundedReceiver[T any] struct {
	spec   *ChannelSpec
	q      *fifo[T]
	cyclic bool

	head *PeekResult[T]
}

func newBoundedReceiver[T any](spec *ChannelSpec, q *fifo[T], cyclic bool) *boundedReceiver[T] {
	return &boundedReceiver[T]{spec: spec, q: q, cyclic: cyclic}
}

func (r *boundedReceiver[T]) Peek() PeekResult[T] {
	if r.head != nil && r.head.Kind != PeekNothing {
		return *r.head
	}
	elem, ok, closed := r.q.front()
	switch {
	case ok:
		res := Something(elem)
		r.head = &res
		return res
	case closed:
		res := Closed[T]()
		r.head = &res
		return res
	default:
		return r.nothingBound()
	}
}

func (r *boundedReceiver[T]) nothingBound() PeekResult[T] {
	if r.cyclic {
		return Nothing[T](r.spec.WaitUntilSender(context.Background(), Time{}))
	}
	return Nothing[T](Infinite())
}

func (r *boundedReceiver[T]) PeekNext(ctx context.Context, tm *TimeManager) (ChannelElement[T], error) {
	if r.head != nil && r.head.Kind == PeekSomething {
		return r.head.Elem, nil
	}
	elem, closed := r.q.waitFront(ctx)
	if ctx != nil && ctx.Err() != nil {
		return ChannelElement[T]{}, ctx.Err()
	}
	if closed {
		return ChannelElement[T]{}, ErrClosed
	}
	res := Something(elem)
	r.head = &res
	return elem, nil
}

func (r *boundedReceiver[T]) Dequeue(ctx context.Context, tm *TimeManager) (ChannelElement[T], error) {
	elem, err := r.PeekNext(ctx, tm)
	if err != nil {
		return elem, err
	}
	freeAt := tm.Tick().Add(r.spec.ResponseLatency)
	_, closed := r.q.pop(freeAt, r.cyclic)
	r.head = nil
	if closed {
		return ChannelElement[T]{}, ErrClosed
	}
	return elem, nil
}

func (r *boundedReceiver[T]) Close() {
	r.q.closeReceiver()
}
