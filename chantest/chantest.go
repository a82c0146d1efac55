// Package chantest provides utilities for testing channel implementations.
// The package offers a small harness for driving senders and receivers
// from separate goroutines and verifying the delivery guarantees that
// channels must uphold: every value delivered exactly once, and FIFO order
// where the channel kind promises it.
//
// # Example Usage
//
// Drive a sender in the background and collect on the test goroutine:
//
//	ch := channel.NewAsync[int](4)
//	wait := chantest.Produce(t, ch, 1, 2, 3)
//	got := chantest.Collect(t, ch, 3)
//	wait()
//	chantest.CheckOrder(t, got, []int{1, 2, 3})
//
// The helpers bound every wait, so a lost wake-up in the implementation
// under test surfaces as a test failure rather than a hung test binary.
package chantest

import (
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/notorious-go/channels/channel"
)

// Timeout bounds every blocking step the harness performs. It is generous
// because CI machines stall; a correct implementation finishes each step
// in microseconds.
const Timeout = 10 * time.Second

// Produce sends the given values on ch from a new goroutine, in order,
// reporting any send failure through t. The returned function blocks until
// the producer has finished and must be called before the test returns.
func Produce[T any](t *testing.T, ch channel.Channel[T], values ...T) (wait func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i, v := range values {
			if err := ch.Send(v); err != nil {
				t.Errorf("produce: send %v of %v failed: %v", i+1, len(values), err)
				return
			}
		}
	}()
	return func() {
		select {
		case <-done:
		case <-time.After(Timeout):
			t.Fatalf("produce: sender still blocked after %v", Timeout)
		}
	}
}

// Collect receives exactly n values from ch on the calling goroutine and
// returns them in arrival order. It fails the test if any receive blocks
// longer than [Timeout] or the channel closes early.
func Collect[T any](t *testing.T, ch channel.Channel[T], n int) []T {
	t.Helper()
	got := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, ok := ch.RecvTimeout(Timeout)
		if !ok {
			t.Fatalf("collect: receive %v of %v did not complete", i+1, n)
		}
		got = append(got, v)
	}
	return got
}

// Drain receives values from ch until it reports closure, returning
// everything collected in arrival order. It fails the test if the channel
// neither delivers nor closes within [Timeout].
func Drain[T any](t *testing.T, ch channel.Channel[T]) []T {
	t.Helper()
	var got []T
	for {
		v, ok := ch.RecvTimeout(Timeout)
		if !ok {
			if !ch.IsClosed() {
				t.Fatalf("drain: receive %v did not complete and the channel is not closed", len(got)+1)
			}
			return got
		}
		got = append(got, v)
	}
}

// CheckOrder verifies that got is exactly want, in order. Use it for
// single-producer scenarios where FIFO delivery is promised.
func CheckOrder[T comparable](t *testing.T, got, want []T) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("delivery order mismatch:\n got:  %v\n want: %v", got, want)
	}
}

// CheckExactlyOnce verifies that got is a permutation of want: every value
// delivered exactly once, order disregarded. Use it for multi-producer
// scenarios where interleaving is unconstrained.
func CheckExactlyOnce[T comparable](t *testing.T, got, want []T) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("delivered %v values, want %v", len(got), len(want))
	}
	counts := make(map[T]int, len(want))
	for _, v := range want {
		counts[v]++
	}
	for _, v := range got {
		counts[v]--
	}
	for v, n := range counts {
		switch {
		case n > 0:
			t.Errorf("value %v was lost (%v missing deliveries)", v, n)
		case n < 0:
			t.Errorf("value %v was duplicated (%v extra deliveries)", v, -n)
		}
	}
}

// Exchange spawns one producer goroutine per batch — in reverse order, to
// stress the wake-up paths with senders that arrive before any receiver —
// collects every value on the calling goroutine, and verifies exactly-once
// delivery. It returns the values in arrival order for any further
// per-batch order checks the caller wants to make.
func Exchange[T comparable](t *testing.T, ch channel.Channel[T], batches ...[]T) []T {
	t.Helper()

	var want []T
	for _, batch := range batches {
		want = append(want, batch...)
	}

	var wg sync.WaitGroup
	for i := len(batches) - 1; i >= 0; i-- {
		batch := batches[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, v := range batch {
				if err := ch.Send(v); err != nil {
					t.Errorf("exchange: send of %v failed: %v", v, err)
					return
				}
			}
		}()
	}

	got := Collect(t, ch, len(want))
	wg.Wait()
	CheckExactlyOnce(t, got, want)
	return got
}

// Subsequence verifies that the values of batch appear in got in their
// original relative order, possibly interleaved with other values. Use it
// after Exchange to confirm per-producer FIFO on an asynchronous channel.
func Subsequence[T comparable](t *testing.T, got, batch []T) {
	t.Helper()
	i := 0
	for _, v := range got {
		if i < len(batch) && v == batch[i] {
			i++
		}
	}
	if i != len(batch) {
		t.Errorf("batch %v is not a subsequence of the delivery order %v", batch, got)
	}
}
