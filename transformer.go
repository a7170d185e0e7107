package flow

// Transformer is a node that receives packets of type C and emits packets
// of type P. Its production is driven by input arrival: the ready callback
// pops from input pins and pushes to output pins in the same call.
type Transformer[C, P any] struct {
	node
	inputs  []*Inpin[C]
	outputs []*Outpin[P]
	ready   func(*Transformer[C, P], int)
}

var _ Node = (*Transformer[int, string])(nil)

// NewTransformer returns a transformer with ins input pins and outs output
// pins. ready is invoked with the index of an input pin that has a packet
// waiting.
func NewTransformer[C, P any](name string, ins, outs int, ready func(*Transformer[C, P], int), options ...Option) *Transformer[C, P] {
	t := &Transformer[C, P]{ready: ready}
	t.node.init(name, options...)
	for i := 0; i < ins; i++ {
		t.inputs = append(t.inputs, newInpin[C](pinName(name, "in", i), t.node.signal))
	}
	for i := 0; i < outs; i++ {
		t.outputs = append(t.outputs, newOutpin[P](pinName(name, "out", i)))
	}
	return t
}

// Kind implements Node.
func (t *Transformer[C, P]) Kind() Kind {
	return KindTransformer
}

// Ins returns the number of input pins.
func (t *Transformer[C, P]) Ins() int {
	return len(t.inputs)
}

// Input returns the input pin at index i.
func (t *Transformer[C, P]) Input(i int) *Inpin[C] {
	return t.inputs[i]
}

// Inputs returns all input pins.
func (t *Transformer[C, P]) Inputs() []*Inpin[C] {
	return t.inputs
}

// Outs returns the number of output pins.
func (t *Transformer[C, P]) Outs() int {
	return len(t.outputs)
}

// Output returns the output pin at index i.
func (t *Transformer[C, P]) Output(i int) *Outpin[P] {
	return t.outputs[i]
}

// Outputs returns all output pins.
func (t *Transformer[C, P]) Outputs() []*Outpin[P] {
	return t.outputs
}

// Rename sets a new name for this node and derives new pin names from it,
// renaming attached pipes along the way.
func (t *Transformer[C, P]) Rename(name string) string {
	for i, in := range t.inputs {
		in.Rename(pinName(name, "in", i))
	}
	for i, out := range t.outputs {
		out.Rename(pinName(name, "out", i))
	}
	return t.node.Rename(name)
}

func (t *Transformer[C, P]) sever() {
	for _, in := range t.inputs {
		in.Disconnect()
	}
	for _, out := range t.outputs {
		out.Disconnect()
	}
}

func (t *Transformer[C, P]) run() {
	t.consumeLoop(len(t.inputs),
		func(i int) bool { return t.inputs[i].Peek() },
		func(i int) { t.ready(t, i) })
}
