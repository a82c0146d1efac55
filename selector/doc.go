// Package selector waits on several channel operations at once and
// commits to exactly one, in the manner of a select statement over the
// channel package's typed channels.
//
// # Usage
//
// Build one [Case] per candidate operation and hand them to [Select]:
//
//	result, err := selector.Select(
//		selector.Recv(jobs, func(j Job) string { return run(j) }),
//		selector.Recv(control, func(c Cmd) string { return apply(c) }),
//	)
//
// Exactly one handler runs per call, and its result is returned. The
// non-committing cases leave their channels untouched. [TrySelect] is the
// non-blocking form and [SelectTimeout] bounds the wait.
//
// # Protocol
//
// Select repeatedly scans its cases for one that is ready, committing
// through the channel's own non-blocking operation so the commit is atomic
// under that channel's lock. When nothing is ready it registers a single
// binary semaphore with every live candidate and parks on it; whichever
// channel changes state first releases the semaphore, and the selector
// unregisters everywhere and scans again. The selector never holds two
// channel locks at the same time, so candidate sets cannot form lock
// cycles no matter how they overlap across concurrent selectors.
//
// Scans start at a rotated index (advanced per scan, process-wide), so
// when several cases are continuously ready each is chosen with equal
// frequency rather than the first-listed one winning every time.
//
// # Closed Channels
//
// A case is dead once its operation can never succeed: a send on a closed
// channel, or a receive on a closed-and-drained one. Dead cases are
// skipped. When every case is dead, Select fails with [channel.ErrClosed],
// while TrySelect and SelectTimeout return their ordinary negative result
// — immediately, not after the timeout.
package selector
