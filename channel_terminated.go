package dam

import "context"

// terminatedSender and terminatedReceiver back a channel endpoint after
// cleanup has run. Reads report Closed forever; writes are silently
// accepted and dropped.
type terminatedSender[T any] struct{}

func (terminatedSender[T]) Enqueue(context.Context, *TimeManager, ChannelElement[T]) error {
	return nil
}

func (terminatedSender[T]) WaitUntilAvailable(context.Context, *TimeManager) error {
	return nil
}

func (terminatedSender[T]) Close() {}

type terminatedReceiver[T any] struct{}

func (terminatedReceiver[T]) Peek() PeekResult[T] {
	return Closed[T]()
}

func (terminatedReceiver[T]) PeekNext(context.Context, *TimeManager) (ChannelElement[T], error) {
	return ChannelElement[T]{}, ErrClosed
}

func (terminatedReceiver[T]) Dequeue(context.Context, *TimeManager) (ChannelElement[T], error) {
	return ChannelElement[T]{}, ErrClosed
}

func (terminatedReceiver[T]) Close() {}
