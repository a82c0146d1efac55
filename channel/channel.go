package channel

import (
	"errors"
	"time"

	"github.com/notorious-go/channels/semaphore"
)

// ErrClosed is the failure reported by blocking operations that can no
// longer make progress because the channel was closed: Send on a closed
// channel, and Recv on a channel that is closed and has no messages left.
//
// The timed and non-blocking variants never return this error; they report
// closure through their negative result instead.
var ErrClosed = errors.New("channel: closed")

// Status is a snapshot of one side of a channel, taken under the channel's
// lock. Selectors use it to classify candidates between scans; by the time
// the caller acts on it, the channel may have moved on, so a Ready status
// is a hint to attempt the operation, never a guarantee.
type Status int

const (
	// NotReady means the operation would block right now.
	NotReady Status = iota
	// Ready means the operation would succeed right now.
	Ready
	// Closed means the operation can never succeed again: the channel is
	// closed and, for the receive side, has no messages left to drain.
	Closed
)

// String returns the name of the status for diagnostics.
func (s Status) String() string {
	switch s {
	case NotReady:
		return "NotReady"
	case Ready:
		return "Ready"
	case Closed:
		return "Closed"
	default:
		return "Status(invalid)"
	}
}

// Channel is the contract shared by the synchronous (rendezvous) and
// asynchronous (bounded-buffer) channel kinds.
//
// All methods are safe for concurrent use by any number of goroutines.
// Values are delivered to exactly one receiver, and an asynchronous channel
// preserves FIFO order between Send calls and Recv calls.
//
// Closing is terminal. After Close, Send fails immediately, while Recv
// keeps draining any values that were accepted before closure and fails
// only once the channel is empty.
type Channel[T any] interface {
	// Send delivers v to the channel, blocking until the value is accepted
	// (handed to a receiver for a synchronous channel, enqueued for an
	// asynchronous one). It returns ErrClosed if the channel is closed
	// before the value is accepted. There is no partial success: a nil
	// return means the value is owned by the channel or a receiver.
	Send(v T) error

	// TrySend delivers v only if it can do so without blocking. It returns
	// true if the value was accepted, false if the channel is closed or has
	// no capacity for it right now.
	TrySend(v T) bool

	// SendTimeout delivers v, waiting at most d for capacity. A zero d
	// behaves exactly like TrySend. A negative d waits indefinitely like
	// Send, except that closure is reported as false rather than an error.
	SendTimeout(v T, d time.Duration) bool

	// Recv takes the next value from the channel, blocking until one is
	// available. It returns ErrClosed once the channel is closed and every
	// value accepted before closure has been drained.
	Recv() (T, error)

	// TryRecv takes the next value only if one is immediately available.
	TryRecv() (T, bool)

	// RecvTimeout takes the next value, waiting at most d for one to
	// arrive. A zero d behaves exactly like TryRecv. A negative d waits
	// indefinitely like Recv, except that closure is reported through the
	// false result rather than an error.
	RecvTimeout(d time.Duration) (T, bool)

	// Close marks the channel closed, wakes every parked sender and
	// receiver, and releases every registered selector waiter. Closing an
	// already-closed channel is a no-op. On a synchronous channel, Close
	// does not return until any in-flight value has been taken by a
	// receiver.
	Close()

	// IsClosed reports whether the channel is closed AND has nothing left
	// to drain. While buffered or in-flight values remain after Close,
	// IsClosed still reports false because Recv can still succeed.
	IsClosed() bool

	Waitable
}

// Waitable is the registration surface a selector uses to be woken by any
// of its candidate channels. Both channel kinds implement it; ordinary
// senders and receivers never need these methods.
//
// A registered semaphore is released — along with the channel's own parked
// waiters — on every state change that could make the corresponding
// operation succeed, and on closure. The channel never removes a
// registration on its own: the selector that registered a semaphore must
// unregister it from every channel before discarding it.
type Waitable interface {
	// AddRecvWaiter registers w to be released when a message may be
	// available. If a message is already available, or the channel is
	// closed and drained, it registers nothing and returns true: the caller
	// should commit or rescan immediately instead of parking, because no
	// future state change is promised to release w.
	AddRecvWaiter(w semaphore.Binary) bool

	// AddSendWaiter registers w to be released when send capacity may be
	// available. If capacity is already available, or the channel is
	// closed, it registers nothing and returns true.
	AddSendWaiter(w semaphore.Binary) bool

	// DelRecvWaiter removes a registration made by AddRecvWaiter. Removing
	// a semaphore that is not registered is a no-op.
	DelRecvWaiter(w semaphore.Binary)

	// DelSendWaiter removes a registration made by AddSendWaiter.
	DelSendWaiter(w semaphore.Binary)

	// RecvStatus reports whether a Recv would succeed right now, would
	// block, or can never succeed again (closed and drained).
	RecvStatus() Status

	// SendStatus reports whether a Send would be accepted right now, would
	// block, or can never succeed again (closed).
	SendStatus() Status
}
