// Package semaphore provides a binary semaphore used as the wake-up object
// for multi-way channel selection, where notifications from several sources
// must coalesce into a single pending permit.
//
// # Why This Package Exists
//
// A selector waiting on several channels at once parks on exactly one
// object that every candidate channel can release. A counting semaphore is
// the wrong shape for that job: if three channels become ready while the
// selector is between scans, three stacked permits would cause three
// spurious wake-ups later. The Binary type caps the count at one permit, so
// any number of Release calls collapse into a single wake-up, and a stale
// permit costs at most one extra rescan.
//
// # When NOT to Use This Package
//
// This package implements one very specific semaphore variant. If you need
// anything beyond a coalescing one-shot notification, use alternatives:
//
//   - Counting or weighted semaphores: use golang.org/x/sync/semaphore
//   - Context cancellation support: use raw channels with select statements
//   - Broadcast to many waiters: use a close-once channel or sync.Cond
//
// The philosophy here is deliberate: there is no one-size-fits-all
// semaphore. This flavor exists because the channel and selector packages
// in this module need exactly these semantics, nothing more.
//
// # Implementation
//
// The semaphore is implemented as a buffered channel with a single slot.
// This provides a zero-cost abstraction — the semaphore IS the channel —
// and makes Binary values comparable, which the channel package uses to
// find and remove a registered waiter.
package semaphore
