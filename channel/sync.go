package channel

import (
	"time"

	"github.com/notorious-go/channels/semaphore"
)

// Sync is a synchronous (rendezvous) channel: it has no buffer, and a
// value exists only in flight between one sender and one receiver. A
// blocking Send does not return until its value has been taken (or the
// channel closes while the value is in flight, in which case Close
// guarantees the value is still drained before Close itself returns).
//
// TrySend on a Sync channel succeeds only when a rendezvous partner is
// already committed: a receiver parked in Recv, or a selector registered
// to receive. Without a partner there is nobody to hand the value to, so
// TrySend reports false rather than leaving a value nobody asked for.
//
// Use NewSync to create one; the zero value is not usable.
type Sync[T any] struct {
	state

	// The in-flight slot. present distinguishes a live value from the
	// zero value of T.
	value   T
	present bool

	// takes counts receiver take-overs of the slot. A sender snapshots it
	// when publishing; takes moving past the snapshot means that exact
	// value was consumed, which the shared present flag cannot tell apart
	// from a later sender's republish.
	takes uint64
}

var _ Channel[any] = (*Sync[any])(nil)

// NewSync creates a synchronous channel for values of type T.
func NewSync[T any]() *Sync[T] {
	return &Sync[T]{state: newState()}
}

// Send delivers v to a receiver, blocking until the value has been taken
// or the channel is closed. It returns ErrClosed only if the channel was
// closed before v entered the in-flight slot; once v is in flight, closure
// counts as delivery because Close drains the slot before returning.
func (c *Sync[T]) Send(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.writers++
	for c.present && !c.closed {
		c.wait(&c.sendReady)
	}
	if c.closed {
		c.writers--
		return ErrClosed
	}
	c.value, c.present = v, true
	taken := c.takes
	c.notifyRecv()
	for c.takes == taken && !c.closed {
		c.wait(&c.sendReady)
	}
	// Our value left the slot (or the channel is draining); let the next
	// parked sender have its turn.
	c.sendReady.signal()
	c.writers--
	return nil
}

// TrySend delivers v without blocking. It returns true only if a
// rendezvous partner was ready to take the value.
func (c *Sync[T]) TrySend(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.present {
		return false
	}
	if c.readers == 0 && c.recvWaiters.empty() {
		return false
	}
	c.value, c.present = v, true
	c.notifyRecv()
	return true
}

// SendTimeout delivers v, waiting at most d. A zero d behaves like
// TrySend; a negative d behaves like Send except that closure before the
// value entered the slot is reported as false.
//
// If the deadline expires while v sits untaken in the in-flight slot, the
// value is retracted and false is returned, so a false result always means
// no receiver got the value.
func (c *Sync[T]) SendTimeout(v T, d time.Duration) bool {
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
	for c.present && !c.closed {
		if !c.waitDeadline(&c.sendReady, deadline) && c.present {
			return false
		}
	}
	if c.closed {
		return false
	}
	c.value, c.present = v, true
	taken := c.takes
	c.notifyRecv()
	// Wait on the take counter, not the present flag: once our value is
	// consumed, another sender may republish into the slot, and retracting
	// that sender's value would lose it.
	for c.takes == taken && !c.closed {
		if !c.waitDeadline(&c.sendReady, deadline) && c.takes == taken {
			// Nobody took the value in time; it is still ours. Retract it
			// so a later receiver cannot observe a handover the sender
			// already gave up on.
			var zero T
			c.value, c.present = zero, false
			c.notifySend()
			return false
		}
	}
	c.sendReady.signal()
	return true
}

// Recv takes the next value, blocking until a sender provides one. Once
// the channel is closed and no value is in flight, Recv returns ErrClosed.
func (c *Sync[T]) Recv() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readers++
	if !c.closed && !c.present {
		// A receiver is now committed; senders and send-selectors can
		// rendezvous against it.
		c.notifySend()
	}
	for !c.closed && !c.present {
		c.wait(&c.recvReady)
	}
	if c.present {
		v := c.take()
		c.readers--
		return v, nil
	}
	c.readers--
	var zero T
	return zero, ErrClosed
}

// TryRecv takes an in-flight value if one is present right now.
func (c *Sync[T]) TryRecv() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.present {
		var zero T
		return zero, false
	}
	return c.take(), true
}

// RecvTimeout takes the next value, waiting at most d for a sender. A zero
// d behaves like TryRecv; a negative d behaves like Recv except that
// closure is reported as false.
func (c *Sync[T]) RecvTimeout(d time.Duration) (T, bool) {
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
	if !c.closed && !c.present {
		c.notifySend()
	}
	for !c.closed && !c.present {
		if !c.waitDeadline(&c.recvReady, deadline) && !c.present {
			var zero T
			return zero, false
		}
	}
	if c.present {
		return c.take(), true
	}
	var zero T
	return zero, false
}

// take empties the in-flight slot, records the take-over, and wakes the
// send side. Call with mu held and present true.
func (c *Sync[T]) take() T {
	v := c.value
	var zero T
	c.value, c.present = zero, false
	c.takes++
	c.notifySend()
	return v
}

// Close marks the channel closed and wakes every parked sender, receiver
// and registered selector. If a value is in flight, Close blocks until a
// receiver has taken it, so once Close returns no value can be lost.
// Closing an already-closed channel is a no-op.
//
// Close does not wait for parked senders to finish failing; they observe
// closure and return on their own.
func (c *Sync[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.notifyRecv()
	c.notifySend()
	// Drain the in-flight slot before returning. The writers count keeps
	// the obligation visible to anyone inspecting the channel state.
	c.writers++
	for c.present {
		c.wait(&c.sendReady)
	}
	c.writers--
}

// IsClosed reports whether the channel is closed and no value remains in
// flight.
func (c *Sync[T]) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed && !c.present
}

// RecvStatus reports the receive-side readiness snapshot.
func (c *Sync[T]) RecvStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.present:
		return Ready
	case c.closed:
		return Closed
	default:
		return NotReady
	}
}

// SendStatus reports the send-side readiness snapshot. A rendezvous send
// is ready when the slot is free and a partner — a parked receiver or a
// registered receive waiter — is committed to taking the value.
func (c *Sync[T]) SendStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.closed:
		return Closed
	case !c.present && (c.readers > 0 || !c.recvWaiters.empty()):
		return Ready
	default:
		return NotReady
	}
}

// AddRecvWaiter registers w unless a value is already in flight or the
// channel is closed, per the Waitable contract. Registering a receive
// waiter creates rendezvous capacity, so the send side is notified.
func (c *Sync[T]) AddRecvWaiter(w semaphore.Binary) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.present || c.closed {
		return true
	}
	c.recvWaiters.add(w)
	c.notifySend()
	return false
}

// AddSendWaiter registers w unless the send side is already ready or the
// channel is closed, per the Waitable contract.
func (c *Sync[T]) AddSendWaiter(w semaphore.Binary) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	if !c.present && (c.readers > 0 || !c.recvWaiters.empty()) {
		return true
	}
	c.sendWaiters.add(w)
	return false
}

// DelRecvWaiter removes a registration made by AddRecvWaiter.
func (c *Sync[T]) DelRecvWaiter(w semaphore.Binary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recvWaiters.remove(w)
}

// DelSendWaiter removes a registration made by AddSendWaiter.
func (c *Sync[T]) DelSendWaiter(w semaphore.Binary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendWaiters.remove(w)
}
