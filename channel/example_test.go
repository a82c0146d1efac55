package channel_test

import (
	"fmt"

	"github.com/notorious-go/channels/channel"
)

func Example() {
	// An asynchronous channel decouples the sender from the receiver up to
	// its capacity, then applies backpressure.
	ch := channel.NewAsync[string](2)
	fmt.Println("Created:", ch)

	fmt.Println("Send a:", ch.TrySend("a"))
	fmt.Println("Send b:", ch.TrySend("b"))
	// The buffer is full now; a non-blocking send reports that instead of
	// waiting for a receiver.
	fmt.Println("Send c:", ch.TrySend("c"))

	// Closing stops further sends but keeps the buffered values
	// receivable, in order, until the channel is drained.
	ch.Close()
	fmt.Println("Closed, drained:", ch.IsClosed())
	for {
		v, err := ch.Recv()
		if err != nil {
			fmt.Println("Recv:", err)
			break
		}
		fmt.Println("Recv:", v)
	}
	fmt.Println("Closed, drained:", ch.IsClosed())

	// Output:
	// Created: Async(0/2)
	// Send a: true
	// Send b: true
	// Send c: false
	// Closed, drained: false
	// Recv: a
	// Recv: b
	// Recv: channel: closed
	// Closed, drained: true
}

func Example_rendezvous() {
	// A synchronous channel has no buffer: a send completes only when a
	// receiver takes the value, so the two goroutines meet at each
	// handover.
	ch := channel.NewSync[int]()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 3; i++ {
			if err := ch.Send(i); err != nil {
				return
			}
		}
	}()

	for i := 0; i < 3; i++ {
		v, err := ch.Recv()
		if err != nil {
			break
		}
		fmt.Println("Received:", v)
	}
	<-done
	ch.Close()

	// Output:
	// Received: 1
	// Received: 2
	// Received: 3
}
