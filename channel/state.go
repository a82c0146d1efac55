package channel

import (
	"sync"
	"time"

	"github.com/notorious-go/channels/semaphore"
)

// waiters is an ordered registry of selector semaphores. Order is
// preserved on removal so that release order matches registration order,
// though selectors must not rely on it for fairness — they rotate their
// own scan instead.
//
// The registry is guarded by the owning channel's mutex.
type waiters struct {
	sems []semaphore.Binary
}

func (w *waiters) add(s semaphore.Binary) {
	w.sems = append(w.sems, s)
}

// remove deletes the first registration of s. Unknown semaphores are
// ignored; a selector may unregister from a channel that already saw the
// registration observe readiness.
func (w *waiters) remove(s semaphore.Binary) {
	for i, cur := range w.sems {
		if cur == s {
			w.sems = append(w.sems[:i], w.sems[i+1:]...)
			return
		}
	}
}

func (w *waiters) empty() bool {
	return len(w.sems) == 0
}

// releaseAll sets the permit on every registered semaphore. Registrations
// stay in place: the selector that owns a semaphore is the only party that
// removes it.
func (w *waiters) releaseAll() {
	for _, s := range w.sems {
		s.Release()
	}
}

// state is the blocking and signalling machinery shared by both channel
// kinds: the closed flag, the parked reader/writer counts, one condition
// and one waiter registry per side.
//
// Every field is guarded by mu. The discipline for any mutation that can
// unblock a peer is: make the state change, then notify the matching side,
// which signals that side's condition AND releases every semaphore in that
// side's registry. Missing either half loses a wake-up.
type state struct {
	mu     sync.Mutex
	closed bool

	// Callers currently parked inside a blocking Recv or Send.
	readers int
	writers int

	// recvReady is signalled when receivers should re-examine the channel
	// (a value arrived, or it closed); sendReady is the send-side twin
	// (capacity freed, a receiver arrived on a rendezvous, or closure).
	recvReady cond
	sendReady cond

	recvWaiters waiters
	sendWaiters waiters
}

func newState() state {
	return state{recvReady: newCond(), sendReady: newCond()}
}

// notifyRecv wakes everything waiting to receive. Call with mu held after
// any change that may have made a message available.
func (s *state) notifyRecv() {
	s.recvReady.signal()
	s.recvWaiters.releaseAll()
}

// notifySend wakes everything waiting to send. Call with mu held after any
// change that may have made capacity available.
func (s *state) notifySend() {
	s.sendReady.signal()
	s.sendWaiters.releaseAll()
}

// wait blocks on c until its next signal. Call with mu held; mu is
// released for the duration of the wait and reacquired before returning.
// The caller must re-check its predicate afterwards.
func (s *state) wait(c *cond) {
	ready := c.ready()
	s.mu.Unlock()
	<-ready
	s.mu.Lock()
}

// waitDeadline blocks on c until its next signal or the deadline,
// whichever comes first. It returns false once the deadline has passed.
// Like wait, it temporarily releases mu, and a false return still requires
// a final predicate check: a signal can race the timer.
func (s *state) waitDeadline(c *cond, deadline time.Time) bool {
	left := time.Until(deadline)
	if left <= 0 {
		return false
	}
	ready := c.ready()
	s.mu.Unlock()
	timer := time.NewTimer(left)
	signalled := false
	select {
	case <-ready:
		signalled = true
	case <-timer.C:
	}
	timer.Stop()
	s.mu.Lock()
	return signalled
}
