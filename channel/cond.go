package channel

// cond is an edge-triggered condition: waiters capture the current
// generation channel under the owning lock, release the lock, and block on
// the channel. signal closes the current generation and starts a new one,
// waking every captured waiter at once.
//
// Built from a replaced-on-close channel rather than sync.Cond because
// waiters must be able to bound their wait with a deadline, which sync.Cond
// cannot express. Every wake-up, including a spurious one, returns control
// to the caller's predicate loop.
//
// All methods must be called with the owning channel's lock held.
type cond struct {
	gen chan struct{}
}

func newCond() cond {
	return cond{gen: make(chan struct{})}
}

// ready returns the current generation channel. The caller must obtain it
// before releasing the lock; any signal issued after the lock is released
// closes this exact channel, so the wake-up cannot be lost.
func (c *cond) ready() <-chan struct{} {
	return c.gen
}

// signal wakes every waiter blocked on the current generation.
func (c *cond) signal() {
	close(c.gen)
	c.gen = make(chan struct{})
}
