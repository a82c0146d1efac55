package channel

import (
	"fmt"
	"slices"
	"time"

	"github.com/notorious-go/channels/semaphore"
)

// Async is an asynchronous channel: a FIFO buffer with a fixed positive
// capacity. Send blocks only while the buffer is full; Recv blocks only
// while it is empty. Closing stops further sends immediately but lets
// receivers drain every value accepted before closure, in order.
//
// Use NewAsync to create one; the zero value is not usable.
type Async[T any] struct {
	state

	capacity int
	queue    []T
}

var _ Channel[any] = (*Async[any])(nil)

// NewAsync creates an asynchronous channel for values of type T with the
// given buffer capacity. It panics if capacity is less than 1; a channel
// without a buffer is a rendezvous, which is what NewSync builds.
func NewAsync[T any](capacity int) *Async[T] {
	if capacity < 1 {
		panic(fmt.Errorf("channel: async capacity must be at least 1, got %v", capacity))
	}
	return &Async[T]{state: newState(), capacity: capacity}
}

// Len reports how many values are currently buffered.
func (c *Async[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Cap reports the buffer capacity the channel was created with.
func (c *Async[T]) Cap() int {
	return c.capacity
}

// String returns a human-readable snapshot in the form "Async(len/cap)".
func (c *Async[T]) String() string {
	return fmt.Sprintf("Async(%v/%v)", c.Len(), c.capacity)
}

// Send enqueues v, blocking while the buffer is full. It returns ErrClosed
// if the channel is closed before the value is enqueued.
func (c *Async[T]) Send(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.writers++
	for len(c.queue) == c.capacity && !c.closed {
		c.wait(&c.sendReady)
	}
	if c.closed {
		c.writers--
		return ErrClosed
	}
	c.queue = append(c.queue, v)
	c.notifyRecv()
	c.writers--
	return nil
}

// TrySend enqueues v only if the buffer has room right now.
func (c *Async[T]) TrySend(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || len(c.queue) == c.capacity {
		return false
	}
	c.queue = append(c.queue, v)
	c.notifyRecv()
	return true
}

// SendTimeout enqueues v, waiting at most d for buffer room. A zero d
// behaves like TrySend; a negative d behaves like Send except that closure
// is reported as false.
func (c *Async[T]) SendTimeout(v T, d time.Duration) bool {
	if d == 0 {
		return c.TrySend(v)
	}
	if d < 0 {
		return c.Send(v) == nil
	}
	deadline := time.Now().Add(d)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.writers++
	defer func() { c.writers-- }()
	for len(c.queue) == c.capacity && !c.closed {
		if !c.waitDeadline(&c.sendReady, deadline) && len(c.queue) == c.capacity {
			return false
		}
	}
	if c.closed {
		return false
	}
	c.queue = append(c.queue, v)
	c.notifyRecv()
	return true
}

// Recv dequeues the oldest value, blocking while the buffer is empty. Once
// the channel is closed and drained, Recv returns ErrClosed.
func (c *Async[T]) Recv() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readers++
	for len(c.queue) == 0 && !c.closed {
		c.wait(&c.recvReady)
	}
	if len(c.queue) == 0 {
		c.readers--
		var zero T
		return zero, ErrClosed
	}
	v := c.dequeue()
	c.readers--
	return v, nil
}

// TryRecv dequeues the oldest value if one is buffered right now.
func (c *Async[T]) TryRecv() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		var zero T
		return zero, false
	}
	return c.dequeue(), true
}

// RecvTimeout dequeues the oldest value, waiting at most d for one to
// arrive. A zero d behaves like TryRecv; a negative d behaves like Recv
// except that closure is reported as false.
func (c *Async[T]) RecvTimeout(d time.Duration) (T, bool) {
	if d == 0 {
		return c.TryRecv()
	}
	if d < 0 {
		v, err := c.Recv()
		return v, err == nil
	}
	deadline := time.Now().Add(d)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.readers++
	defer func() { c.readers-- }()
	for len(c.queue) == 0 && !c.closed {
		if !c.waitDeadline(&c.recvReady, deadline) && len(c.queue) == 0 {
			var zero T
			return zero, false
		}
	}
	if len(c.queue) == 0 {
		var zero T
		return zero, false
	}
	return c.dequeue(), true
}

// dequeue pops the queue head and wakes the send side. Call with mu held
// and the queue non-empty.
func (c *Async[T]) dequeue() T {
	v := c.queue[0]
	c.queue = slices.Delete(c.queue, 0, 1)
	c.notifySend()
	return v
}

// Close marks the channel closed and wakes every parked sender, receiver
// and registered selector. Buffered values survive closure and remain
// receivable until drained. Closing an already-closed channel is a no-op.
func (c *Async[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.notifyRecv()
	c.notifySend()
}

// IsClosed reports whether the channel is closed and fully drained.
func (c *Async[T]) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed && len(c.queue) == 0
}

// RecvStatus reports the receive-side readiness snapshot. Buffered values
// keep the status Ready even after closure.
func (c *Async[T]) RecvStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case len(c.queue) > 0:
		return Ready
	case c.closed:
		return Closed
	default:
		return NotReady
	}
}

// SendStatus reports the send-side readiness snapshot.
func (c *Async[T]) SendStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.closed:
		return Closed
	case len(c.queue) < c.capacity:
		return Ready
	default:
		return NotReady
	}
}

// AddRecvWaiter registers w unless a value is already buffered or the
// channel is closed and drained, per the Waitable contract.
func (c *Async[T]) AddRecvWaiter(w semaphore.Binary) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) > 0 || c.closed {
		return true
	}
	c.recvWaiters.add(w)
	return false
}

// AddSendWaiter registers w unless buffer room is already available or the
// channel is closed, per the Waitable contract.
func (c *Async[T]) AddSendWaiter(w semaphore.Binary) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || len(c.queue) < c.capacity {
		return true
	}
	c.sendWaiters.add(w)
	return false
}

// DelRecvWaiter removes a registration made by AddRecvWaiter.
func (c *Async[T]) DelRecvWaiter(w semaphore.Binary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recvWaiters.remove(w)
}

// DelSendWaiter removes a registration made by AddSendWaiter.
func (c *Async[T]) DelSendWaiter(w semaphore.Binary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendWaiters.remove(w)
}
