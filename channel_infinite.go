package dam

import "context"

// infiniteSender is the Sender half shared by InfiniteAcyclic and
// InfiniteCyclic. Capacity is unbounded, so Enqueue and WaitUntilAvailable
// never block for space; only the forward-latency rewrite applies.
type infiniteSender[T any] struct {
	spec *ChannelSpec
	q    *fifo[T]
}

func newInfiniteSender[T any](spec *ChannelSpec, q *fifo[T]) *infiniteSender[T] {
	return &infiniteSender[T]{spec: spec, q: q}
}

func (s *infiniteSender[T]) Enqueue(ctx context.Context, tm *TimeManager, elem ChannelElement[T]) error {
	elem.Time = Max(elem.Time, tm.Tick().Add(s.spec.ForwardLatency))
	return s.q.push(ctx, elem, Time{}, false)
}

func (s *infiniteSender[T]) WaitUntilAvailable(_ context.Context, _ *TimeManager) error {
	return nil
}

func (s *infiniteSender[T]) Close() {
	s.q.closeSender()
}

// infiniteReceiver is the Receiver half shared by InfiniteAcyclic and
// InfiniteCyclic; cyclic controls how an empty Peek reports its bound, per
// the flavor contract.
type infiniteReceiver[T any] struct {
	spec   *ChannelSpec
	q      *fifo[T]
	cyclic bool

	head *PeekResult[T]
}

func newInfiniteReceiver[T any](spec *ChannelSpec, q *fifo[T], cyclic bool) *infiniteReceiver[T] {
	return &infiniteReceiver[T]{spec: spec, q: q, cyclic: cyclic}
}

func (r *infiniteReceiver[T]) Peek() PeekResult[T] {
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

func (r *infiniteReceiver[T]) nothingBound() PeekResult[T] {
	if r.cyclic {
		return Nothing[T](r.spec.WaitUntilSender(context.Background(), Time{}))
	}
	return Nothing[T](Infinite())
}

func (r *infiniteReceiver[T]) PeekNext(ctx context.Context, tm *TimeManager) (ChannelElement[T], error) {
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

func (r *infiniteReceiver[T]) Dequeue(ctx context.Context, tm *TimeManager) (ChannelElement[T], error) {
	elem, err := r.PeekNext(ctx, tm)
	if err != nil {
		return elem, err
	}
	freeAt := tm.Tick().Add(r.spec.ResponseLatency)
	_, closed := r.q.pop(freeAt, false)
	r.head = nil
	if closed {
		return ChannelElement[T]{}, ErrClosed
	}
	return elem, nil
}

func (r *infiniteReceiver[T]) Close() {
	r.q.closeReceiver()
}
