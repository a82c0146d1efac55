// Package channel provides typed channels for communication between
// cooperating goroutines: synchronous rendezvous channels and asynchronous
// bounded-buffer channels, both built on explicit mutex-and-condition
// state rather than the runtime's built-in channels.
//
// # Why This Package Exists
//
// Built-in channels are almost always the right tool, and this package is
// not a replacement for them. What built-ins cannot offer is a channel
// whose readiness can be observed and waited on by an external protocol:
// every operation here exposes non-blocking and deadline-bounded variants,
// a readiness snapshot, and a waiter registry that lets a multi-way
// selector (see the selector package) park on a single semaphore that any
// of its candidate channels can release. That selection protocol — wait on
// several channels, commit to exactly one — is the reason the internals
// are spelled out in user space.
//
// # Channel Kinds
//
// [Sync] is a rendezvous: no buffer, at most one value in flight, and a
// blocking send completes only when a receiver takes the value. [Async]
// carries a FIFO buffer of fixed positive capacity. Both implement the
// [Channel] interface.
//
// # Closure Semantics
//
// Closing is terminal and one-way. After Close, Send fails with
// [ErrClosed] immediately, while Recv keeps draining values accepted
// before closure — buffered values for Async, the in-flight value for Sync
// — and fails only once nothing remains. Close on a Sync channel blocks
// until any in-flight value has been taken, so a returned Close means no
// value was lost. IsClosed reports true only for a closed AND drained
// channel.
//
// The timed and non-blocking variants (TrySend, TryRecv, SendTimeout,
// RecvTimeout) never produce an error: closure and timeout are reported
// through their negative result.
//
// # Blocking Discipline
//
// Each channel owns one mutex guarding all of its state, two edge-
// triggered conditions (one per side), and two waiter registries. Every
// state change that can unblock a peer signals the matching condition and
// releases every semaphore registered on that side. All waits sit inside
// predicate loops, so spurious wake-ups are harmless, and the conditions
// are realized as replaced-on-close channels so that waits can carry a
// deadline.
package channel
