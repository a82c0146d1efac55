package semaphore

import (
	"fmt"
	"time"
)

// Binary is a binary semaphore: it holds either zero permits or one. It is
// implemented as a buffered channel with a single slot, which makes Binary
// values comparable by identity — a property the channel package relies on
// to unregister a specific waiter.
//
// Binary is the notification object a multi-way selector parks on. Any
// channel the semaphore is registered with may call Release when its state
// changes; the parked selector consumes the permit in Acquire and rescans.
// Because Release is idempotent, it is always safe for a channel to notify,
// no matter how many state changes coalesce while the selector is away.
//
// To inspect the semaphore's current state, use the built-in len function:
// len(b) is 1 when a permit is pending and 0 otherwise.
type Binary chan struct{}

// NewBinary creates a binary semaphore with no pending permit.
func NewBinary() Binary {
	return make(Binary, 1)
}

// String returns a human-readable representation of the semaphore's state,
// either "Binary(signalled)" or "Binary(empty)". This method enables direct
// printing of semaphores in fmt operations.
func (b Binary) String() string {
	if len(b) > 0 {
		return "Binary(signalled)"
	}
	return "Binary(empty)"
}

// GoString implements fmt.GoStringer so that %#v prints the same compact
// state as String rather than the underlying channel value.
func (b Binary) GoString() string {
	return fmt.Sprintf("semaphore.%v", b.String())
}

// Release sets the permit, waking a parked Acquire if there is one.
//
// Release is idempotent: if the permit is already pending, the call is a
// no-op. It never blocks, so it is safe to call while holding locks.
func (b Binary) Release() {
	select {
	case b <- struct{}{}:
	default:
		// The permit is already pending. Notifications do not stack.
	}
}

// Acquire blocks until the permit is pending, then consumes it.
func (b Binary) Acquire() {
	<-b
}

// TryAcquire consumes the permit without blocking. It returns true if a
// permit was pending, false otherwise.
func (b Binary) TryAcquire() bool {
	select {
	case <-b:
		return true
	default:
		return false
	}
}

// AcquireTimeout waits up to the given duration for the permit and consumes
// it. It returns true if a permit was consumed, false if the wait timed out.
//
// A non-positive duration degrades to TryAcquire.
func (b Binary) AcquireTimeout(d time.Duration) bool {
	if d <= 0 {
		return b.TryAcquire()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-b:
		return true
	case <-timer.C:
		return false
	}
}
