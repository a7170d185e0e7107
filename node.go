package flow

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// State identifies one of the possible states a node can be in.
type State int32

// states
const (
	Started State = iota // the node is executing
	Paused               // the node is suspended; the initial state
	Stopped              // the node has exited its execution loop
)

func (s State) String() string {
	switch s {
	case Started:
		return "started"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Kind tags the closed set of node variants the graph distinguishes.
type Kind int

// kinds
const (
	KindProducer Kind = iota
	KindTransformer
	KindConsumer
)

func (k Kind) String() string {
	switch k {
	case KindProducer:
		return "producer"
	case KindTransformer:
		return "transformer"
	case KindConsumer:
		return "consumer"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Node is the surface the graph drives. The three variants Producer,
// Consumer and Transformer form a closed set reported by Kind.
type Node interface {
	Name() string
	Rename(string) string
	State() State
	Kind() Kind

	// transition, sever and run keep the set closed: only the graph moves
	// nodes between states, disconnects their pins and runs their loops.
	transition(State)
	sever()
	run()
}

// signal is the condition variable and mutex pair a node's execution loop
// waits on. Inpins touch it when a packet arrives.
type signal struct {
	mu   sync.Mutex
	cond sync.Cond
}

func newSignal() *signal {
	s := &signal{}
	s.cond.L = &s.mu
	return s
}

// touch wakes the execution loop to re-examine its wait condition.
func (s *signal) touch() {
	s.mu.Lock()
	s.cond.Signal()
	s.mu.Unlock()
}

// node is the base of all node variants. The state is read atomically so
// user callbacks can inspect it without taking the transition lock.
type node struct {
	Named
	state  atomic.Int32
	signal *signal

	startedFn func()
	pausedFn  func()
	stoppedFn func()
}

// Option configures a node at construction time.
type Option func(*node)

// WithStarted registers fn to run when the node transitions to Started.
// The hook runs under the transition lock and must not block.
func WithStarted(fn func()) Option {
	return func(n *node) {
		n.startedFn = fn
	}
}

// WithPaused registers fn to run when the node transitions to Paused.
// The hook runs under the transition lock and must not block.
func WithPaused(fn func()) Option {
	return func(n *node) {
		n.pausedFn = fn
	}
}

// WithStopped registers fn to run when the node transitions to Stopped.
// The hook runs under the transition lock and must not block.
func WithStopped(fn func()) Option {
	return func(n *node) {
		n.stoppedFn = fn
	}
}

// init prepares the embedded node base. Nodes start paused.
func (n *node) init(name string, options ...Option) {
	n.Named = Named{name: name}
	n.signal = newSignal()
	n.state.Store(int32(Paused))
	for _, option := range options {
		option(n)
	}
}

// State returns the node's state.
func (n *node) State() State {
	return State(n.state.Load())
}

// transition moves the node to s, notifies the matching hook and touches
// the transition signal. Only the graph initiates transitions.
func (n *node) transition(s State) {
	n.signal.mu.Lock()
	n.state.Store(int32(s))
	switch s {
	case Started:
		if n.startedFn != nil {
			n.startedFn()
		}
	case Paused:
		if n.pausedFn != nil {
			n.pausedFn()
		}
	case Stopped:
		if n.stoppedFn != nil {
			n.stoppedFn()
		}
	}
	n.signal.cond.Signal()
	n.signal.mu.Unlock()
}

// waitWhile blocks until the node's state differs from s.
func (n *node) waitWhile(s State) {
	n.signal.mu.Lock()
	for State(n.state.Load()) == s {
		n.signal.cond.Wait()
	}
	n.signal.mu.Unlock()
}

// produceLoop is the execution function of pure producers. While the node
// is started, produce is invoked repeatedly; it should push packets on the
// node's outpins and may block until it has something to emit.
func (n *node) produceLoop(produce func()) {
	for s := n.State(); s != Stopped; s = n.State() {
		if s == Paused {
			n.waitWhile(Paused)
			continue
		}
		if s == Started {
			produce()
		}
	}
}

// consumeLoop is the execution function of consumers and transformers. It
// waits on the transition signal until the started state ends or a packet
// arrives, then fires ready for every input with a packet waiting.
func (n *node) consumeLoop(ins int, peek func(int) bool, ready func(int)) {
	anyPeek := func() bool {
		for i := 0; i < ins; i++ {
			if peek(i) {
				return true
			}
		}
		return false
	}

	for s := n.State(); s != Stopped; s = n.State() {
		incoming := false
		switch s {
		case Paused:
			n.waitWhile(Paused)
		case Started:
			n.signal.mu.Lock()
			for State(n.state.Load()) == Started {
				if anyPeek() {
					incoming = true
					break
				}
				n.signal.cond.Wait()
			}
			n.signal.mu.Unlock()
		}
		if incoming {
			for i := 0; i < ins; i++ {
				if peek(i) {
					ready(i)
				}
			}
		}
	}
}

// pinName derives a pin name from the owning node's name.
func pinName(node, direction string, i int) string {
	return fmt.Sprintf("%s_%s%d", node, direction, i)
}
