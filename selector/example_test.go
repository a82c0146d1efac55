package selector_test

import (
	"fmt"

	"github.com/notorious-go/channels/channel"
	"github.com/notorious-go/channels/selector"
)

func Example() {
	jobs := channel.NewAsync[string](4)
	control := channel.NewAsync[string](1)

	_ = jobs.Send("build")
	_ = jobs.Send("test")
	_ = control.Send("pause")

	// A worker loop drains whichever channel has something for it. With
	// both ready, the rotated scan alternates between them; here we drain
	// until both channels report closure.
	_ = jobs.Send("ship")
	jobs.Close()
	control.Close()

	var handled []string
	for {
		msg, err := selector.Select(
			selector.Recv(jobs, func(j string) string { return "job:" + j }),
			selector.Recv(control, func(c string) string { return "ctl:" + c }),
		)
		if err != nil {
			// Every candidate is closed and drained; the worker is done.
			break
		}
		handled = append(handled, msg)
	}

	fmt.Println("Handled", len(handled), "messages")
	// The control message is among them, interleaved with the jobs.
	for _, msg := range handled {
		if msg == "ctl:pause" {
			fmt.Println("control message seen")
		}
	}

	// Output:
	// Handled 4 messages
	// control message seen
}
