package flow

// Consumer is a node that only receives packets.
type Consumer[T any] struct {
	node
	inputs []*Inpin[T]
	ready  func(*Consumer[T], int)
}

var _ Node = (*Consumer[int])(nil)

// NewConsumer returns a consumer with ins input pins. ready is invoked
// with the index of an input pin that has a packet waiting; it should pop
// packets from that pin.
func NewConsumer[T any](name string, ins int, ready func(*Consumer[T], int), options ...Option) *Consumer[T] {
	c := &Consumer[T]{ready: ready}
	c.node.init(name, options...)
	for i := 0; i < ins; i++ {
		c.inputs = append(c.inputs, newInpin[T](pinName(name, "in", i), c.node.signal))
	}
	return c
}

// Kind implements Node.
func (c *Consumer[T]) Kind() Kind {
	return KindConsumer
}

// Ins returns the number of input pins.
func (c *Consumer[T]) Ins() int {
	return len(c.inputs)
}

// Input returns the input pin at index i.
func (c *Consumer[T]) Input(i int) *Inpin[T] {
	return c.inputs[i]
}

// Inputs returns all input pins.
func (c *Consumer[T]) Inputs() []*Inpin[T] {
	return c.inputs
}

// Rename sets a new name for this node and derives new pin names from it,
// renaming attached pipes along the way.
func (c *Consumer[T]) Rename(name string) string {
	for i, in := range c.inputs {
		in.Rename(pinName(name, "in", i))
	}
	return c.node.Rename(name)
}

func (c *Consumer[T]) sever() {
	for _, in := range c.inputs {
		in.Disconnect()
	}
}

func (c *Consumer[T]) run() {
	c.consumeLoop(len(c.inputs),
		func(i int) bool { return c.inputs[i].Peek() },
		func(i int) { c.ready(c, i) })
}
