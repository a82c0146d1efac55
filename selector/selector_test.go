package selector_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/notorious-go/channels/channel"
	"github.com/notorious-go/channels/chantest"
	"github.com/notorious-go/channels/selector"
)

func TestSelectPicksTheReadyCase(t *testing.T) {
	a := channel.NewSync[string]()
	b := channel.NewSync[string]()
	wait := chantest.Produce(t, b, "from-b")

	calls := 0
	got, err := selector.Select(
		selector.Recv(a, func(v string) string { calls++; return "a:" + v }),
		selector.Recv(b, func(v string) string { calls++; return "b:" + v }),
	)
	require.NoError(t, err)
	wait()

	assert.Equal(t, "b:from-b", got)
	assert.Equal(t, 1, calls, "exactly one handler must run per select")
	// The losing candidate observed no state change.
	assert.Equal(t, channel.NotReady, a.RecvStatus())
}

func TestSelectBlocksUntilReady(t *testing.T) {
	a := channel.NewAsync[int](1)
	b := channel.NewAsync[int](1)

	done := make(chan int, 1)
	go func() {
		v, err := selector.Select(
			selector.Recv(a, func(v int) int { return v }),
			selector.Recv(b, func(v int) int { return v }),
		)
		if err != nil {
			t.Errorf("select failed: %v", err)
		}
		done <- v
	}()

	select {
	case v := <-done:
		t.Fatalf("select returned %v with nothing ready", v)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, b.Send(17))
	select {
	case v := <-done:
		assert.Equal(t, 17, v)
	case <-time.After(chantest.Timeout):
		t.Fatal("parked selector was not woken by the send")
	}
}

func TestSelectSendCase(t *testing.T) {
	full := channel.NewAsync[int](1)
	require.True(t, full.TrySend(0))
	open := channel.NewAsync[int](1)

	got, err := selector.Select(
		selector.Send(full, 1, func() string { return "full" }),
		selector.Send(open, 2, func() string { return "open" }),
	)
	require.NoError(t, err)
	assert.Equal(t, "open", got)

	v, ok := open.TryRecv()
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, full.Len(), "the losing send must not have delivered")
}

func TestSelectSendWakesWhenCapacityFrees(t *testing.T) {
	ch := channel.NewAsync[int](1)
	require.True(t, ch.TrySend(1))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := selector.Select(
			selector.Send(ch, 2, func() any { return nil }),
		)
		if err != nil {
			t.Errorf("select failed: %v", err)
		}
	}()

	select {
	case <-done:
		t.Fatal("send case committed against a full buffer")
	case <-time.After(50 * time.Millisecond):
	}

	v, err := ch.Recv()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	select {
	case <-done:
	case <-time.After(chantest.Timeout):
		t.Fatal("parked send selector was not woken by the freed slot")
	}
	got := chantest.Collect(t, ch, 1)
	chantest.CheckOrder(t, got, []int{2})
}

func TestSelectSendRendezvous(t *testing.T) {
	ch := channel.NewSync[int]()

	got := make(chan int, 1)
	go func() {
		v, err := ch.Recv()
		if err != nil {
			t.Errorf("receive failed: %v", err)
			return
		}
		got <- v
	}()

	// The send case becomes ready once the receiver is parked; the
	// selector commits the handover without a blocking Send.
	deadline := time.Now().Add(chantest.Timeout)
	for {
		if _, ok := selector.TrySelect(
			selector.Send(ch, 23, func() any { return nil }),
		); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("send case never became ready against a parked receiver")
		}
		time.Sleep(time.Millisecond)
	}

	select {
	case v := <-got:
		assert.Equal(t, 23, v)
	case <-time.After(chantest.Timeout):
		t.Fatal("receiver never took the selector's value")
	}
}

func TestSelectFairness(t *testing.T) {
	const rounds = 10000
	a := channel.NewAsync[string](8)
	b := channel.NewAsync[string](8)

	// Producers keep both channels continuously full. They exit once the
	// channels are closed at the end of the test.
	var g errgroup.Group
	g.Go(func() error {
		for a.Send("a") == nil {
		}
		return nil
	})
	g.Go(func() error {
		for b.Send("b") == nil {
		}
		return nil
	})

	counts := map[string]int{}
	for i := 0; i < rounds; i++ {
		// Give the producers time to refill, so both cases are ready at
		// every selection.
		for a.Len() == 0 || b.Len() == 0 {
			runtime.Gosched()
		}
		got, err := selector.Select(
			selector.Recv(a, func(v string) string { return v }),
			selector.Recv(b, func(v string) string { return v }),
		)
		require.NoError(t, err)
		counts[got]++
	}

	a.Close()
	b.Close()
	require.NoError(t, g.Wait())

	assert.InDelta(t, rounds/2, counts["a"], rounds*0.05,
		"channel a chosen %v of %v times", counts["a"], rounds)
	assert.InDelta(t, rounds/2, counts["b"], rounds*0.05,
		"channel b chosen %v of %v times", counts["b"], rounds)
}

func TestSelectSingleCommitUnderContention(t *testing.T) {
	const selectors = 10
	ch := channel.NewAsync[int](1)

	results := make(chan int, selectors)
	var g errgroup.Group
	for i := 0; i < selectors; i++ {
		g.Go(func() error {
			v, err := selector.Select(
				selector.Recv(ch, func(v int) int { return v }),
			)
			if err != nil {
				return err
			}
			results <- v
			return nil
		})
	}

	// Feed one value at a time; each must be claimed by exactly one of
	// the contending selectors.
	want := make([]int, selectors)
	for i := range want {
		want[i] = i
		require.NoError(t, ch.Send(i))
	}
	require.NoError(t, g.Wait())
	close(results)

	var got []int
	for v := range results {
		got = append(got, v)
	}
	chantest.CheckExactlyOnce(t, got, want)
}

func TestSelectAllClosed(t *testing.T) {
	a := channel.NewSync[int]()
	b := channel.NewAsync[int](1)
	a.Close()
	b.Close()

	_, err := selector.Select(
		selector.Recv(a, func(v int) int { return v }),
		selector.Send(b, 1, func() int { return 1 }),
	)
	assert.ErrorIs(t, err, channel.ErrClosed)

	// The timed form reports the negative result immediately rather than
	// sleeping out the deadline.
	start := time.Now()
	_, ok := selector.SelectTimeout(time.Minute,
		selector.Recv(a, func(v int) int { return v }),
	)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSelectDrainsClosedChannelFirst(t *testing.T) {
	ch := channel.NewAsync[int](2)
	require.NoError(t, ch.Send(1))
	ch.Close()

	// Closed but undrained: the recv case is still live.
	v, err := selector.Select(
		selector.Recv(ch, func(v int) int { return v }),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = selector.Select(
		selector.Recv(ch, func(v int) int { return v }),
	)
	assert.ErrorIs(t, err, channel.ErrClosed)
}

func TestSelectSkipsDeadCases(t *testing.T) {
	dead := channel.NewSync[int]()
	dead.Close()
	live := channel.NewAsync[int](1)
	require.NoError(t, live.Send(5))

	v, err := selector.Select(
		selector.Recv(dead, func(v int) int { return v }),
		selector.Recv(live, func(v int) int { return v }),
	)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestSelectWakesOnClose(t *testing.T) {
	ch := channel.NewSync[int]()
	done := make(chan error, 1)
	go func() {
		_, err := selector.Select(
			selector.Recv(ch, func(v int) int { return v }),
		)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	ch.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, channel.ErrClosed)
	case <-time.After(chantest.Timeout):
		t.Fatal("parked selector was not woken by Close")
	}
}

func TestTrySelect(t *testing.T) {
	a := channel.NewAsync[int](1)
	b := channel.NewAsync[int](1)

	_, ok := selector.TrySelect(
		selector.Recv(a, func(v int) int { return v }),
		selector.Recv(b, func(v int) int { return v }),
	)
	assert.False(t, ok, "TrySelect must not block on empty channels")

	require.NoError(t, a.Send(3))
	v, ok := selector.TrySelect(
		selector.Recv(a, func(v int) int { return v }),
		selector.Recv(b, func(v int) int { return v }),
	)
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestSelectTimeoutExpires(t *testing.T) {
	ch := channel.NewAsync[int](1)
	start := time.Now()
	_, ok := selector.SelectTimeout(50*time.Millisecond,
		selector.Recv(ch, func(v int) int { return v }),
	)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestSelectTimeoutDeliversEarly(t *testing.T) {
	ch := channel.NewAsync[int](1)
	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = ch.Send(11)
	}()

	start := time.Now()
	v, ok := selector.SelectTimeout(chantest.Timeout,
		selector.Recv(ch, func(v int) int { return v }),
	)
	require.True(t, ok)
	assert.Equal(t, 11, v)
	assert.Less(t, time.Since(start), chantest.Timeout/2)
}

func TestSelectNoCasesPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = selector.Select[int]() })
	assert.Panics(t, func() { _, _ = selector.TrySelect[int]() })
}

func TestSelectMixedRolesAcrossKinds(t *testing.T) {
	in := channel.NewAsync[int](1)
	out := channel.NewAsync[int](1)
	require.True(t, out.TrySend(0)) // out is full, its send case cannot win

	require.NoError(t, in.Send(8))
	got, err := selector.Select(
		selector.Recv(in, func(v int) string { return "recv" }),
		selector.Send(out, 9, func() string { return "send" }),
	)
	require.NoError(t, err)
	assert.Equal(t, "recv", got)
	assert.Equal(t, 1, out.Len())
}
