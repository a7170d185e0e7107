package flow

import (
	"time"
	"unsafe"
)

// Packet carries one element of type T from node to node through a pipe.
//
// Associated with the element is an optional consumption time. A consumer
// node will wait before consuming the element if the packet arrives early.
// If the packet arrives too late, the consumer node may discard it.
type Packet[T any] struct {
	data        T
	consumption time.Time
}

// NewPacket returns a packet carrying data with no consumption time.
func NewPacket[T any](data T) *Packet[T] {
	return &Packet[T]{data: data}
}

// NewPacketAt returns a packet carrying data to be consumed at consumption.
func NewPacketAt[T any](data T, consumption time.Time) *Packet[T] {
	return &Packet[T]{data: data, consumption: consumption}
}

// Size returns the number of bytes this packet accounts for in pipe weight.
func (p *Packet[T]) Size() int {
	return int(unsafe.Sizeof(p.data))
}

// Data returns a pointer to the element this packet is carrying.
func (p *Packet[T]) Data() *T {
	return &p.data
}

// ConsumptionTime returns the time at which a consumer node should consume
// the element. The zero time means the packet can be consumed immediately.
func (p *Packet[T]) ConsumptionTime() time.Time {
	return p.consumption
}

// SetConsumptionTime sets the time at which a consumer node should consume
// the element.
func (p *Packet[T]) SetConsumptionTime(t time.Time) {
	p.consumption = t
}

// Clone returns a copy of this packet.
func (p *Packet[T]) Clone() *Packet[T] {
	c := *p
	return &c
}
