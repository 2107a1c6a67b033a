package dam

import "context"

// voidSender backs the sender half of a Void channel: a sink with no
// receiver. It accepts any write without delay, capacity, or latency.
// Attaching a receiver to a Void channel is a fatal builder-time invariant
// breach, so there is no corresponding void receiver type.
type voidSender[T any] struct{}

func (voidSender[T]) Enqueue(context.Context, *TimeManager, ChannelElement[T]) error {
	return nil
}

func (voidSender[T]) WaitUntilAvailable(context.Context, *TimeManager) error {
	return nil
}

func (voidSender[T]) Close() {}
