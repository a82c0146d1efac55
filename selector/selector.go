package selector

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/notorious-go/channels/channel"
	"github.com/notorious-go/channels/semaphore"
)

// A Case is one candidate operation in a multi-way selection: a receive or
// a send on a specific channel, paired with the handler to run if that
// operation is the one that commits. Build cases with [Recv] and [Send];
// the zero Case is not usable.
//
// All cases passed to one Select call must share the handler result type
// R, which is what Select returns.
type Case[R any] struct {
	ch   channel.Waitable
	send bool

	// attempt commits the operation if it is ready right now and runs the
	// handler. The commit itself happens inside the channel's TrySend or
	// TryRecv, under that channel's lock; the handler runs after, outside
	// any lock.
	attempt func() (R, bool)
}

// Recv builds a case that receives a value from ch and, if chosen, returns
// handler's result from the Select call. The handler runs exactly once,
// only when this case commits, and outside any channel lock.
func Recv[T, R any](ch channel.Channel[T], handler func(T) R) Case[R] {
	return Case[R]{
		ch: ch,
		attempt: func() (R, bool) {
			v, ok := ch.TryRecv()
			if !ok {
				var zero R
				return zero, false
			}
			return handler(v), true
		},
	}
}

// Send builds a case that sends v to ch and, if chosen, returns handler's
// result from the Select call. On a synchronous channel the case becomes
// ready only when a rendezvous partner is committed to receive.
func Send[T, R any](ch channel.Channel[T], v T, handler func() R) Case[R] {
	return Case[R]{
		ch:   ch,
		send: true,
		attempt: func() (R, bool) {
			if !ch.TrySend(v) {
				var zero R
				return zero, false
			}
			return handler(), true
		},
	}
}

// dead reports whether the case can never commit again: a send on a closed
// channel, or a receive on a closed-and-drained channel.
func (c *Case[R]) dead() bool {
	if c.send {
		return c.ch.SendStatus() == channel.Closed
	}
	return c.ch.RecvStatus() == channel.Closed
}

// register enrols w with the case's channel. It returns true if the
// channel observed readiness (or closure) instead of registering, in which
// case the caller must rescan rather than park.
func (c *Case[R]) register(w semaphore.Binary) bool {
	if c.send {
		return c.ch.AddSendWaiter(w)
	}
	return c.ch.AddRecvWaiter(w)
}

func (c *Case[R]) unregister(w semaphore.Binary) {
	if c.send {
		c.ch.DelSendWaiter(w)
	} else {
		c.ch.DelRecvWaiter(w)
	}
}

// cursor rotates the starting index of every scan, across Select calls and
// across retries within one call, so that no perpetually-ready case can
// starve the others.
var cursor atomic.Uint64

// rotate advances the cursor and folds it onto a valid starting index for
// n cases. The modulo happens on the unsigned counter so the index stays
// non-negative even after the counter wraps.
func rotate(n int) int {
	return int(cursor.Add(1) % uint64(n))
}

// Select blocks until exactly one of the cases commits, then returns that
// case's handler result. The other cases observe no state change.
//
// A case whose channel is closed (and drained, for a receive) is dead and
// is skipped; once every case is dead, Select fails with
// [channel.ErrClosed]. Select panics if called with no cases, which could
// never return.
func Select[R any](cases ...Case[R]) (R, error) {
	// Without a deadline, run returns only on a commit or when every case
	// is dead.
	v, _, err := run(cases, false, time.Time{})
	return v, err
}

// TrySelect performs a single readiness scan and commits the first ready
// case it finds. It returns false without blocking when no case is ready,
// including when every case is dead.
func TrySelect[R any](cases ...Case[R]) (R, bool) {
	if len(cases) == 0 {
		panic(fmt.Errorf("selector: select with no cases"))
	}
	start := rotate(len(cases))
	for i := range cases {
		c := &cases[(start+i)%len(cases)]
		if v, ok := c.attempt(); ok {
			return v, true
		}
	}
	var zero R
	return zero, false
}

// SelectTimeout behaves like Select but gives up once d has elapsed,
// returning false. It also returns false, immediately, once every case is
// dead: a closed channel can never become ready, so waiting out the
// deadline would be a spurious deadlock. A non-positive d behaves like
// TrySelect.
func SelectTimeout[R any](d time.Duration, cases ...Case[R]) (R, bool) {
	if d <= 0 {
		return TrySelect(cases...)
	}
	v, ok, _ := run(cases, true, time.Now().Add(d))
	return v, ok
}

// run is the selection protocol shared by Select and SelectTimeout:
//
//  1. Scan the cases once, starting at a rotated index. Commit the first
//     ready one and return.
//  2. If none committed and all are dead, fail.
//  3. Register one caller-owned semaphore with every live case. If any
//     registration observes readiness, skip parking.
//  4. Park on the semaphore (bounded by the deadline, if any).
//  5. Unregister everywhere and go to 1.
//
// The semaphore is registered with each channel one at a time; no two
// channel locks are ever held together. A permit left over from a channel
// that signalled after the winning scan merely causes one extra scan on
// the next iteration.
func run[R any](cases []Case[R], timed bool, deadline time.Time) (R, bool, error) {
	var zero R
	if len(cases) == 0 {
		panic(fmt.Errorf("selector: select with no cases"))
	}

	w := semaphore.NewBinary()
	registered := make([]*Case[R], 0, len(cases))
	for {
		dead := 0
		start := rotate(len(cases))
		for i := range cases {
			c := &cases[(start+i)%len(cases)]
			if v, ok := c.attempt(); ok {
				return v, true, nil
			}
			if c.dead() {
				dead++
			}
		}
		if dead == len(cases) {
			return zero, false, channel.ErrClosed
		}
		if timed && !time.Now().Before(deadline) {
			return zero, false, nil
		}

		ready := false
		registered = registered[:0]
		for i := range cases {
			c := &cases[i]
			if c.dead() {
				continue
			}
			if c.register(w) {
				ready = true
				break
			}
			registered = append(registered, c)
		}
		if !ready && len(registered) == 0 {
			// Every case went dead between the scan and the registration
			// sweep; nothing would ever release w. Rescan to report it.
			continue
		}

		expired := false
		if !ready {
			if timed {
				expired = !w.AcquireTimeout(time.Until(deadline))
			} else {
				w.Acquire()
			}
		}
		for _, c := range registered {
			c.unregister(w)
		}
		if expired {
			// A release may have raced the timer; honor it with one last
			// scan before reporting the timeout.
			v, ok := TrySelect(cases...)
			return v, ok, nil
		}
	}
}
