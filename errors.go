package dam

import (
	"errors"
	"fmt"
)

// Sentinel channel I/O errors, checked with errors.Is. These surface to the
// context performing the I/O; a context typically treats ErrClosed as
// ordinary termination and unwinds.
var (
	// ErrClosed is returned by a receive-side operation once every sender
	// has gone and the queue has drained.
	ErrClosed = errors.New("dam: channel closed")

	// ErrReceiverGone is returned by a send-side operation on a bounded
	// channel once its receiver has been dropped.
	ErrReceiverGone = errors.New("dam: receiver gone")
)

// DisconnectedSenderError is returned by Initialize when a non-void channel
// never had a sender attached.
type DisconnectedSenderError struct {
	Channel ChannelID
}

func (e *DisconnectedSenderError) Error() string {
	return fmt.Sprintf("dam: channel %s has no attached sender", e.Channel)
}

// DisconnectedReceiverError is returned by Initialize when a non-void
// channel never had a receiver attached.
type DisconnectedReceiverError struct {
	Channel ChannelID
}

func (e *DisconnectedReceiverError) Error() string {
	return fmt.Sprintf("dam: channel %s has no attached receiver", e.Channel)
}

// UnregisteredNodeError is returned by Initialize when a channel endpoint
// names a context id that was never added to the builder.
type UnregisteredNodeError struct {
	Channel ChannelID
	Context Identifier
}

func (e *UnregisteredNodeError) Error() string {
	return fmt.Sprintf("dam: channel %s references unregistered context %s", e.Channel, e.Context)
}

// FatalError marks a programming error: a malformed graph invariant broken
// at runtime (double attachment, I/O on an uninitialized or void-receiver
// flavor). Fatal errors are never retried. The runner recovers a FatalError
// panic per worker and records the branch as failed rather than crashing
// the whole run; every other classification (disconnected senders,
// unregistered nodes, ErrClosed, ErrReceiverGone) is returned as a normal
// error value instead.
type FatalError struct {
	Msg string
}

func (e *FatalError) Error() string {
	return "dam: fatal: " + e.Msg
}

// fatalf panics with a *FatalError built from the given format, the
// idiomatic stand-in for the reference implementation's assert!/panic! on
// an invariant it considers impossible to violate through the public API.
func fatalf(format string, args ...any) {
	panic(&FatalError{Msg: fmt.Sprintf(format, args...)})
}
