package flow

import (
	"sync"

	"github.com/rs/xid"
)

// detached is substituted in pipe names for a disconnected end.
const detached = "nothing"

// newUID returns new unique id value.
func newUID() string {
	return xid.New().String()
}

// pipe carries packets from node to node on a FIFO basis.
//
// Packets accumulate in a pipe when the consuming end does not keep up.
// If accumulation is expected but memory is a concern, a maximum length
// (packet count) and a maximum weight (total byte size) can be set. A cap
// of 0 means uncapped. A graph that produces more data than it consumes
// is unbalanced and should be modified.
//
// The pipe itself is not synchronised. Its two pins hold the mutex paired
// with it in sharedPipe during every mutation and composite read.
type pipe[T any] struct {
	Named
	packets []*Packet[T]

	input  *Outpin[T] // producing end
	output *Inpin[T]  // consuming end

	maxLength int
	maxWeight int
	weight    int

	metric Metric
}

// sharedPipe pairs a pipe with the mutex protecting it. The pair is a
// single allocation jointly referenced by the two pins, so a reference to
// the pipe is only ever taken under its lock.
type sharedPipe[T any] struct {
	sync.Mutex
	pipe pipe[T]
}

// length returns the number of packets in the pipe.
func (p *pipe[T]) length() int {
	return len(p.packets)
}

// push queues a packet. It fails when a non-zero cap would be exceeded,
// leaving both the pipe and the packet untouched.
func (p *pipe[T]) push(pk *Packet[T]) bool {
	if p.maxLength > 0 && len(p.packets) >= p.maxLength {
		p.refused()
		return false
	}
	if p.maxWeight > 0 && p.weight+pk.Size() > p.maxWeight {
		p.refused()
		return false
	}
	p.weight += pk.Size()
	p.packets = append(p.packets, pk)
	if p.metric != nil {
		p.metric.Push(p.Name(), pk.Size())
	}
	return true
}

// pop extracts the front packet, nil if the pipe is empty.
func (p *pipe[T]) pop() *Packet[T] {
	if len(p.packets) == 0 {
		return nil
	}
	pk := p.packets[0]
	p.packets[0] = nil
	p.packets = p.packets[1:]
	p.weight -= pk.Size()
	if p.metric != nil {
		p.metric.Pop(p.Name(), pk.Size())
	}
	return pk
}

func (p *pipe[T]) refused() {
	if p.metric != nil {
		p.metric.Refused(p.Name())
	}
}

// flush discards all packets and returns how many were dropped.
func (p *pipe[T]) flush() int {
	n := len(p.packets)
	p.packets = nil
	p.weight = 0
	if p.metric != nil {
		p.metric.Flushed(p.Name())
	}
	return n
}

// capLength sets the maximum number of packets and returns the previous cap.
// Packets already over the new cap are not dropped.
func (p *pipe[T]) capLength(maxLength int) int {
	previous := p.maxLength
	p.maxLength = maxLength
	return previous
}

// capWeight sets the maximum number of bytes and returns the previous cap.
// Packets already over the new cap are not dropped.
func (p *pipe[T]) capWeight(maxWeight int) int {
	previous := p.maxWeight
	p.maxWeight = maxWeight
	return previous
}
