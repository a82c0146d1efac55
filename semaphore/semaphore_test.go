package semaphore_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notorious-go/channels/semaphore"
)

func Example() {
	sem := semaphore.NewBinary()
	fmt.Println("Created:", sem)

	// Releases coalesce: no matter how many sources notify, a single
	// permit is pending.
	sem.Release()
	sem.Release()
	sem.Release()
	fmt.Println("After three releases:", sem)

	// Acquire consumes the one pending permit.
	sem.Acquire()
	fmt.Println("After acquire:", sem)

	// With no permit pending, TryAcquire reports false immediately
	// rather than blocking.
	fmt.Println("TryAcquire on empty:", sem.TryAcquire())

	// Output:
	// Created: Binary(empty)
	// After three releases: Binary(signalled)
	// After acquire: Binary(empty)
	// TryAcquire on empty: false
}

func TestReleaseIsIdempotent(t *testing.T) {
	sem := semaphore.NewBinary()
	for i := 0; i < 10; i++ {
		sem.Release()
	}
	require.True(t, sem.TryAcquire(), "ten releases must leave exactly one permit")
	assert.False(t, sem.TryAcquire(), "the permit must not stack")
}

func TestAcquireConsumesPermit(t *testing.T) {
	sem := semaphore.NewBinary()
	sem.Release()
	sem.Acquire()
	assert.False(t, sem.TryAcquire())
}

func TestAcquireTimeout(t *testing.T) {
	sem := semaphore.NewBinary()

	start := time.Now()
	require.False(t, sem.AcquireTimeout(50*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	// A pending permit is consumed without waiting out the timeout.
	sem.Release()
	start = time.Now()
	require.True(t, sem.AcquireTimeout(time.Minute))
	assert.Less(t, time.Since(start), time.Second)
}

func TestAcquireTimeoutNonPositive(t *testing.T) {
	sem := semaphore.NewBinary()
	assert.False(t, sem.AcquireTimeout(0))
	sem.Release()
	assert.True(t, sem.AcquireTimeout(-time.Second))
}

func TestReleaseWakesParkedAcquire(t *testing.T) {
	sem := semaphore.NewBinary()
	done := make(chan struct{})
	go func() {
		sem.Acquire()
		close(done)
	}()
	sem.Release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("parked Acquire was not woken by Release")
	}
}
