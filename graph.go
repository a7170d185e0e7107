package flow

import (
	"fmt"

	"github.com/dudk/flow/log"
)

// Metric observes pipe activity. The metric package provides an
// implementation backed by Prometheus.
type Metric interface {
	Push(pipe string, size int)
	Pop(pipe string, size int)
	Refused(pipe string)
	Flushed(pipe string)
}

// PinRef addresses one pin of one node by name and index.
type PinRef struct {
	Node string
	Pin  int
}

// worker owns the goroutine a node runs on.
type worker struct {
	uid  string
	node Node
	done chan struct{}
}

// Graph manages the connections and state of multiple nodes.
//
// When starting or stopping a graph, nodes are started and stopped in a
// fashion that minimises build-up of packets. Topology changes are not
// synchronised: Add, Remove, Connect, DisconnectOutput and DisconnectInput
// are serialised by the graph owner.
type Graph struct {
	Named
	uid string

	producers    map[string]Node
	transformers map[string]Node
	consumers    map[string]Node

	workers     map[string]*worker
	connections map[PinRef]PinRef

	metric Metric
	log    log.Logger
}

// GraphOption configures a graph at construction time.
type GraphOption func(*Graph)

// WithLogger sets the logger the graph reports transitions and worker
// faults to.
func WithLogger(l log.Logger) GraphOption {
	return func(g *Graph) {
		g.log = l
	}
}

// WithMetric attaches a metric collector. Every pipe wired through the
// graph after this reports its activity to m.
func WithMetric(m Metric) GraphOption {
	return func(g *Graph) {
		g.metric = m
	}
}

// NewGraph returns an empty graph.
func NewGraph(name string, options ...GraphOption) *Graph {
	g := &Graph{
		uid:          newUID(),
		producers:    make(map[string]Node),
		transformers: make(map[string]Node),
		consumers:    make(map[string]Node),
		workers:      make(map[string]*worker),
		connections:  make(map[PinRef]PinRef),
	}
	g.Named = Named{name: name}
	g.log = log.Tagged(g.uid)
	for _, option := range options {
		option(g)
	}
	return g
}

// Add inserts a node into the graph under its current name. The node is
// expected to be disconnected. It returns false when the name is already
// taken.
func (g *Graph) Add(n Node) bool {
	if g.find(n.Name()) != nil {
		return false
	}
	switch n.Kind() {
	case KindProducer:
		g.producers[n.Name()] = n
	case KindTransformer:
		g.transformers[n.Name()] = n
	case KindConsumer:
		g.consumers[n.Name()] = n
	}
	return true
}

// AddAs renames the node then inserts it.
func (g *Graph) AddAs(n Node, name string) bool {
	n.Rename(name)
	return g.Add(n)
}

// Remove severs every pin of the named node, clears its edges and evicts
// it from the graph. It returns the removed node, nil when there is no
// node by that name.
func (g *Graph) Remove(name string) Node {
	n := g.find(name)
	if n == nil {
		return nil
	}
	n.sever()
	for from, to := range g.connections {
		if from.Node == name || to.Node == name {
			delete(g.connections, from)
		}
	}
	switch n.Kind() {
	case KindProducer:
		delete(g.producers, name)
	case KindTransformer:
		delete(g.transformers, name)
	case KindConsumer:
		delete(g.consumers, name)
	}
	return n
}

// Find returns the named node, nil when the graph has none by that name.
func (g *Graph) Find(name string) Node {
	return g.find(name)
}

func (g *Graph) find(name string) Node {
	if n, ok := g.producers[name]; ok {
		return n
	}
	if n, ok := g.transformers[name]; ok {
		return n
	}
	if n, ok := g.consumers[name]; ok {
		return n
	}
	return nil
}

// producing and consuming are the typed surfaces Connect asserts nodes to.
// They act as the type witness of an edge: a node that cannot produce or
// consume elements of type T does not satisfy them.
type producing[T any] interface {
	Outs() int
	Output(int) *Outpin[T]
}

type consuming[T any] interface {
	Ins() int
	Input(int) *Inpin[T]
}

// Connect wires the producing node's output pin to the consuming node's
// input pin with an uncapped pipe. It reports whether the wiring took;
// false means a node was missing, a pin index was out of range or a pin
// element type did not match T. On false the graph is unchanged.
func Connect[T any](g *Graph, producer string, out int, consumer string, in int) bool {
	return ConnectCapped[T](g, producer, out, consumer, in, 0, 0)
}

// ConnectCapped is Connect with pipe caps. A cap of 0 means uncapped.
func ConnectCapped[T any](g *Graph, producer string, out int, consumer string, in int, maxLength, maxWeight int) bool {
	if err := connect[T](g, producer, out, consumer, in, maxLength, maxWeight); err != nil {
		g.log.Debug(fmt.Sprintf("graph %s: connect %s[%d] to %s[%d]: %v", g.Name(), producer, out, consumer, in, err))
		return false
	}
	return true
}

func connect[T any](g *Graph, producer string, out int, consumer string, in int, maxLength, maxWeight int) error {
	from := PinRef{Node: producer, Pin: out}
	to := PinRef{Node: consumer, Pin: in}
	if g.connections[from] == to {
		// Already wired to the same target.
		return nil
	}

	pn := g.find(producer)
	if pn == nil {
		return fmt.Errorf("producer %s: %w", producer, ErrNotFound)
	}
	cn := g.find(consumer)
	if cn == nil {
		return fmt.Errorf("consumer %s: %w", consumer, ErrNotFound)
	}
	po, ok := pn.(producing[T])
	if !ok {
		return fmt.Errorf("producer %s: %w", producer, ErrTypeMismatch)
	}
	co, ok := cn.(consuming[T])
	if !ok {
		return fmt.Errorf("consumer %s: %w", consumer, ErrTypeMismatch)
	}
	if out < 0 || out >= po.Outs() {
		return fmt.Errorf("output %d of %s: %w", out, producer, ErrBadPin)
	}
	if in < 0 || in >= co.Ins() {
		return fmt.Errorf("input %d of %s: %w", in, consumer, ErrBadPin)
	}

	outpin := po.Output(out)
	outpin.Connect(co.Input(in), maxLength, maxWeight)
	if g.metric != nil {
		outpin.observe(g.metric)
	}

	// The consumer pin holds one pipe: drop any edge that pointed at it.
	for f, t := range g.connections {
		if t == to {
			delete(g.connections, f)
		}
	}
	g.connections[from] = to
	return nil
}

// DisconnectOutput severs the producing node's output pin and clears the
// edge recorded for it.
func DisconnectOutput[T any](g *Graph, producer string, out int) bool {
	pn := g.find(producer)
	if pn == nil {
		return false
	}
	po, ok := pn.(producing[T])
	if !ok || out < 0 || out >= po.Outs() {
		return false
	}
	po.Output(out).Disconnect()
	delete(g.connections, PinRef{Node: producer, Pin: out})
	return true
}

// DisconnectInput severs the consuming node's input pin and clears the
// edge recorded for it.
func DisconnectInput[T any](g *Graph, consumer string, in int) bool {
	cn := g.find(consumer)
	if cn == nil {
		return false
	}
	co, ok := cn.(consuming[T])
	if !ok || in < 0 || in >= co.Ins() {
		return false
	}
	co.Input(in).Disconnect()
	to := PinRef{Node: consumer, Pin: in}
	for from, t := range g.connections {
		if t == to {
			delete(g.connections, from)
		}
	}
	return true
}

// Connections returns a copy of the wiring registry.
func (g *Graph) Connections() map[PinRef]PinRef {
	connections := make(map[PinRef]PinRef, len(g.connections))
	for from, to := range g.connections {
		connections[from] = to
	}
	return connections
}

// Start spawns a worker for every node that lacks one and transitions all
// nodes to Started. Pure consumers are started first, transformers second
// and pure producers last, so packets do not accumulate before the nodes
// that drain them are ready.
func (g *Graph) Start() {
	for _, nodes := range []map[string]Node{g.consumers, g.transformers, g.producers} {
		for name, n := range nodes {
			n.transition(Started)
			g.log.Debug(fmt.Sprintf("graph %s: node %s is %v", g.Name(), name, Started))
			if g.workers[name] == nil {
				g.workers[name] = g.spawn(n)
			}
		}
	}
}

// Pause transitions all nodes to Paused, in the reverse of the start
// order: upstream stops creating data before its drains pause.
func (g *Graph) Pause() {
	for _, nodes := range []map[string]Node{g.producers, g.transformers, g.consumers} {
		for name, n := range nodes {
			n.transition(Paused)
			g.log.Debug(fmt.Sprintf("graph %s: node %s is %v", g.Name(), name, Paused))
		}
	}
}

// Stop transitions all nodes to Stopped in the pause order and joins the
// workers.
func (g *Graph) Stop() {
	for _, nodes := range []map[string]Node{g.producers, g.transformers, g.consumers} {
		for name, n := range nodes {
			n.transition(Stopped)
			g.log.Debug(fmt.Sprintf("graph %s: node %s is %v", g.Name(), name, Stopped))
			if w := g.workers[name]; w != nil {
				<-w.done
				delete(g.workers, name)
			}
		}
	}
}

// spawn runs the node's execution loop on its own goroutine. A loop that
// panics is reported and treated as a stopped transition on join; the
// graph does not restart it.
func (g *Graph) spawn(n Node) *worker {
	w := &worker{
		uid:  newUID(),
		node: n,
		done: make(chan struct{}),
	}
	go func() {
		defer close(w.done)
		defer func() {
			if r := recover(); r != nil {
				n.transition(Stopped)
				g.log.Info(fmt.Sprintf("graph %s: worker %s of node %s panicked: %v", g.Name(), w.uid, n.Name(), r))
			}
		}()
		n.run()
	}()
	return w
}
