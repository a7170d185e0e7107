// Package mock provides nodes to test graph topologies and the
// concurrency protocol.
package mock

import (
	"runtime"
	"sync"

	"github.com/dudk/flow"
	"github.com/dudk/flow/monitor"
)

// DummyProducer returns a producer that never emits. Its body yields the
// processor so a started dummy does not starve the scheduler.
func DummyProducer[T any](outs int) *flow.Producer[T] {
	return flow.NewProducer[T]("dummy_producer", outs, func(*flow.Producer[T]) {
		runtime.Gosched()
	})
}

// DummyTransformer returns a transformer that consumes and discards.
func DummyTransformer[C, P any](ins, outs int) *flow.Transformer[C, P] {
	return flow.NewTransformer[C, P]("dummy_transformer", ins, outs, func(t *flow.Transformer[C, P], i int) {
		t.Input(i).Pop()
	})
}

// DummyConsumer returns a consumer that consumes and discards.
func DummyConsumer[T any](ins int) *flow.Consumer[T] {
	return flow.NewConsumer[T]("dummy_consumer", ins, func(c *flow.Consumer[T], i int) {
		c.Input(i).Pop()
	})
}

// ProduceN is a producer that emits exactly n zero-value packets on every
// output, then idles until reset.
type ProduceN[T any] struct {
	*flow.Producer[T]
	n    int
	left *monitor.Monitor[int]
}

// NewProduceN returns a ProduceN armed with n packets.
func NewProduceN[T any](n, outs int) *ProduceN[T] {
	p := &ProduceN[T]{n: n, left: monitor.New(n)}
	wake := func() {
		p.left.Access(func(*int) {})
	}
	p.Producer = flow.NewProducer[T]("produce_n", outs,
		func(pr *flow.Producer[T]) {
			emit := false
			p.left.Wait(
				func(left int) bool { return left > 0 || pr.State() != flow.Started },
				func(left *int) {
					if *left > 0 && pr.State() == flow.Started {
						*left--
						emit = true
					}
				},
			)
			if emit {
				var zero T
				for _, out := range pr.Outputs() {
					out.Push(flow.NewPacket(zero))
				}
			}
		},
		flow.WithPaused(wake), flow.WithStopped(wake))
	return p
}

// Reset rearms the producer to emit n more packets.
func (p *ProduceN[T]) Reset() {
	p.left.Access(func(left *int) { *left = p.n })
}

// TransformationCounter forwards packets unchanged, counting them per pin.
type TransformationCounter[T any] struct {
	*flow.Transformer[T, T]
	received []int
	mu       sync.Mutex
}

// NewTransformationCounter returns a counter with inouts inputs and as
// many outputs.
func NewTransformationCounter[T any](inouts int) *TransformationCounter[T] {
	c := &TransformationCounter[T]{received: make([]int, inouts)}
	c.Transformer = flow.NewTransformer[T, T]("transformation_counter", inouts, inouts,
		func(t *flow.Transformer[T, T], i int) {
			if pk := t.Input(i).Pop(); pk != nil {
				t.Output(i).Push(pk)
				c.mu.Lock()
				c.received[i]++
				c.mu.Unlock()
			}
		})
	return c
}

// Count returns how many packets went through input i.
func (c *TransformationCounter[T]) Count(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.received[i]
}

// Reset zeroes the counters.
func (c *TransformationCounter[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.received {
		c.received[i] = 0
	}
}

// ConsumptionCounter consumes packets, counting them per pin.
type ConsumptionCounter[T any] struct {
	*flow.Consumer[T]
	received []int
	mu       sync.Mutex
}

// NewConsumptionCounter returns a counter with ins inputs.
func NewConsumptionCounter[T any](ins int) *ConsumptionCounter[T] {
	c := &ConsumptionCounter[T]{received: make([]int, ins)}
	c.Consumer = flow.NewConsumer[T]("consumption_counter", ins,
		func(cs *flow.Consumer[T], i int) {
			if pk := cs.Input(i).Pop(); pk != nil {
				c.mu.Lock()
				c.received[i]++
				c.mu.Unlock()
			}
		})
	return c
}

// Count returns how many packets arrived at input i.
func (c *ConsumptionCounter[T]) Count(i int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.received[i]
}

// Reset zeroes the counters.
func (c *ConsumptionCounter[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.received {
		c.received[i] = 0
	}
}

// Pusher is a producer driven by hand: every packet handed to Push travels
// through the node's output pin.
type Pusher[T any] struct {
	*flow.Producer[T]
	queue *monitor.Monitor[[]*flow.Packet[T]]
}

// NewPusher returns a pusher with one output pin.
func NewPusher[T any](name string) *Pusher[T] {
	p := &Pusher[T]{queue: monitor.New([]*flow.Packet[T](nil))}
	wake := func() {
		p.queue.Access(func(*[]*flow.Packet[T]) {})
	}
	p.Producer = flow.NewProducer[T](name, 1,
		func(pr *flow.Producer[T]) {
			var packets []*flow.Packet[T]
			p.queue.Wait(
				func(q []*flow.Packet[T]) bool { return len(q) > 0 || pr.State() != flow.Started },
				func(q *[]*flow.Packet[T]) {
					packets = *q
					*q = nil
				},
			)
			for _, pk := range packets {
				pr.Output(0).Push(pk)
			}
		},
		flow.WithPaused(wake), flow.WithStopped(wake))
	return p
}

// Push hands a value to the node to emit.
func (p *Pusher[T]) Push(v T) {
	p.PushPacket(flow.NewPacket(v))
}

// PushPacket hands a ready-made packet to the node to emit.
func (p *Pusher[T]) PushPacket(pk *flow.Packet[T]) {
	p.queue.Access(func(q *[]*flow.Packet[T]) {
		*q = append(*q, pk)
	})
}

// Popper is a consumer that remembers every element it popped, in arrival
// order.
type Popper[T any] struct {
	*flow.Consumer[T]
	popped []T
	mu     sync.Mutex
}

// NewPopper returns a popper with one input pin.
func NewPopper[T any](name string) *Popper[T] {
	p := &Popper[T]{}
	p.Consumer = flow.NewConsumer[T](name, 1,
		func(c *flow.Consumer[T], i int) {
			for pk := c.Input(0).Pop(); pk != nil; pk = c.Input(0).Pop() {
				p.mu.Lock()
				p.popped = append(p.popped, *pk.Data())
				p.mu.Unlock()
			}
		})
	return p
}

// Popped returns a copy of everything popped so far.
func (p *Popper[T]) Popped() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	popped := make([]T, len(p.popped))
	copy(popped, p.popped)
	return popped
}
