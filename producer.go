package flow

// Producer is a node that only emits packets.
type Producer[T any] struct {
	node
	outputs []*Outpin[T]
	produce func(*Producer[T])
}

var _ Node = (*Producer[int])(nil)

// NewProducer returns a producer with outs output pins. produce is invoked
// repeatedly while the node is started; it should push packets on the
// producer's outpins and may block until it has something to emit.
func NewProducer[T any](name string, outs int, produce func(*Producer[T]), options ...Option) *Producer[T] {
	p := &Producer[T]{produce: produce}
	p.node.init(name, options...)
	for i := 0; i < outs; i++ {
		p.outputs = append(p.outputs, newOutpin[T](pinName(name, "out", i)))
	}
	return p
}

// Kind implements Node.
func (p *Producer[T]) Kind() Kind {
	return KindProducer
}

// Outs returns the number of output pins.
func (p *Producer[T]) Outs() int {
	return len(p.outputs)
}

// Output returns the output pin at index i.
func (p *Producer[T]) Output(i int) *Outpin[T] {
	return p.outputs[i]
}

// Outputs returns all output pins.
func (p *Producer[T]) Outputs() []*Outpin[T] {
	return p.outputs
}

// Rename sets a new name for this node and derives new pin names from it,
// renaming attached pipes along the way.
func (p *Producer[T]) Rename(name string) string {
	for i, out := range p.outputs {
		out.Rename(pinName(name, "out", i))
	}
	return p.node.Rename(name)
}

func (p *Producer[T]) sever() {
	for _, out := range p.outputs {
		out.Disconnect()
	}
}

func (p *Producer[T]) run() {
	p.produceLoop(func() {
		p.produce(p)
	})
}
