// Package generic defines sample nodes that perform generic tasks.
package generic

import (
	"fmt"
	"io"
	"time"

	"github.com/dudk/flow"
	"github.com/dudk/flow/monitor"
)

// Generator returns a producer that emits one packet per timer tick, built
// by calling gen. The timer must be run separately.
func Generator[T any](t flow.Timer, gen func() T, name string) *flow.Producer[T] {
	awaken := monitor.New(false)
	fire := func() {
		awaken.Access(func(b *bool) { *b = true })
	}
	t.Listen(fire)

	return flow.NewProducer[T](name, 1,
		func(p *flow.Producer[T]) {
			// Wait for the timer to fire or the started state to end.
			awaken.Wait(
				func(b bool) bool { return b || p.State() != flow.Started },
				func(b *bool) { *b = false },
			)
			if p.State() == flow.Started {
				p.Output(0).Push(flow.NewPacket(gen()))
			}
		},
		flow.WithPaused(fire), flow.WithStopped(fire))
}

// OStreamer returns a consumer that writes each packet's element to w, one
// line per packet.
//
// An element with no consumption time is written immediately. If the
// consumption time is in the future, the node sleeps until then, or until
// it is stopped. If the consumption time is in the past, the packet is
// discarded.
func OStreamer[T any](w io.Writer, name string) *flow.Consumer[T] {
	awaken := monitor.New(false)
	fire := func() {
		awaken.Access(func(b *bool) { *b = true })
	}
	return flow.NewConsumer[T](name, 1,
		func(c *flow.Consumer[T], i int) {
			for pk := c.Input(0).Pop(); pk != nil && c.State() != flow.Stopped; pk = c.Input(0).Pop() {
				when := pk.ConsumptionTime()
				switch {
				case when.IsZero():
					fmt.Fprintln(w, *pk.Data())
				case when.After(time.Now()):
					alarm := time.AfterFunc(time.Until(when), fire)
					awaken.Wait(
						func(b bool) bool { return b },
						func(b *bool) { *b = false },
					)
					alarm.Stop()
					if c.State() != flow.Stopped {
						fmt.Fprintln(w, *pk.Data())
					}
				}
				// A consumption time in the past means the packet
				// arrived too late; it is lost.
			}
		},
		flow.WithStopped(fire))
}

// Tee returns a transformer that forwards each input packet to output 0
// and pushes a clone to every remaining output.
func Tee[T any](outs int, name string) *flow.Transformer[T, T] {
	return flow.NewTransformer[T, T](name, 1, outs, func(t *flow.Transformer[T, T], i int) {
		for pk := t.Input(0).Pop(); pk != nil; pk = t.Input(0).Pop() {
			for o := 1; o < t.Outs(); o++ {
				t.Output(o).Push(pk.Clone())
			}
			t.Output(0).Push(pk)
		}
	})
}

// Delay returns a transformer that postpones packet consumption by offset.
// A packet with no consumption time gets one of arrival time plus offset;
// otherwise offset is added to the existing time.
func Delay[T any](offset time.Duration, name string) *flow.Transformer[T, T] {
	return flow.NewTransformer[T, T](name, 1, 1, func(t *flow.Transformer[T, T], i int) {
		for pk := t.Input(0).Pop(); pk != nil; pk = t.Input(0).Pop() {
			if when := pk.ConsumptionTime(); when.IsZero() {
				pk.SetConsumptionTime(time.Now().Add(offset))
			} else {
				pk.SetConsumptionTime(when.Add(offset))
			}
			t.Output(0).Push(pk)
		}
	})
}
