// Package math defines sample nodes that perform mathematical operations
// on their inputs.
package math

import "github.com/dudk/flow"

// Summable constrains element types the adders can fold with +.
type Summable interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}

// Adder returns a transformer that sums input packets. It fires only when
// every input has a packet waiting: one packet is popped from each input,
// the elements are summed in input order and the first packet carries the
// sum out.
func Adder[T Summable](ins int, name string) *flow.Transformer[T, T] {
	return flow.NewTransformer[T, T](name, ins, 1, func(t *flow.Transformer[T, T], i int) {
		for allReady(t) {
			first := t.Input(0).Pop()
			for n := 1; n < t.Ins(); n++ {
				*first.Data() += *t.Input(n).Pop().Data()
			}
			t.Output(0).Push(first)
		}
	})
}

func allReady[T Summable](t *flow.Transformer[T, T]) bool {
	for i := 0; i < t.Ins(); i++ {
		if !t.Input(i).Peek() {
			return false
		}
	}
	return true
}

// ConstAdder returns a transformer that adds value to every packet's
// element.
func ConstAdder[T Summable](value T, name string) *flow.Transformer[T, T] {
	return flow.NewTransformer[T, T](name, 1, 1, func(t *flow.Transformer[T, T], i int) {
		for pk := t.Input(0).Pop(); pk != nil; pk = t.Input(0).Pop() {
			*pk.Data() += value
			t.Output(0).Push(pk)
		}
	})
}
