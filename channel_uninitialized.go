package dam

import "context"

// uninitializedSender and uninitializedReceiver back every channel endpoint
// before the builder freezes its flavor. Every operation other than attach
// (handled on ChannelSpec, not here) is a fatal programming error: reaching
// one means a context tried to use a channel before Initialize returned.
type uninitializedSender[T any] struct{}

func (uninitializedSender[T]) Enqueue(context.Context, *TimeManager, ChannelElement[T]) error {
	fatalf("enqueue on an uninitialized channel")
	return nil
}

func (uninitializedSender[T]) WaitUntilAvailable(context.Context, *TimeManager) error {
	fatalf("wait_until_available on an uninitialized channel")
	return nil
}

func (uninitializedSender[T]) Close() {
	fatalf("close on an uninitialized channel")
}

type uninitializedReceiver[T any] struct{}

func (uninitializedReceiver[T]) Peek() PeekResult[T] {
	fatalf("peek on an uninitialized channel")
	return PeekResult[T]{}
}

func (uninitializedReceiver[T]) PeekNext(context.Context, *TimeManager) (ChannelElement[T], error) {
	fatalf("peek_next on an uninitialized channel")
	return ChannelElement[T]{}, nil
}

func (uninitializedReceiver[T]) Dequeue(context.Context, *TimeManager) (ChannelElement[T], error) {
	fatalf("dequeue on an uninitialized channel")
	return ChannelElement[T]{}, nil
}

func (uninitializedReceiver[T]) Close() {
	fatalf("close on an uninitialized channel")
}
