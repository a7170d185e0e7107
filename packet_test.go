package flow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/flow"
)

func TestPacket(t *testing.T) {
	pk := flow.NewPacket(42)
	assert.Equal(t, 42, *pk.Data())
	assert.True(t, pk.ConsumptionTime().IsZero())

	*pk.Data() = 11
	assert.Equal(t, 11, *pk.Data())

	when := time.Now().Add(time.Second)
	pk.SetConsumptionTime(when)
	assert.Equal(t, when, pk.ConsumptionTime())
}

func TestPacketAt(t *testing.T) {
	when := time.Now().Add(time.Minute)
	pk := flow.NewPacketAt("late", when)
	assert.Equal(t, "late", *pk.Data())
	assert.Equal(t, when, pk.ConsumptionTime())
}

func TestPacketClone(t *testing.T) {
	pk := flow.NewPacketAt(7, time.Now())
	clone := pk.Clone()
	assert.Equal(t, *pk.Data(), *clone.Data())
	assert.Equal(t, pk.ConsumptionTime(), clone.ConsumptionTime())

	*clone.Data() = 8
	assert.Equal(t, 7, *pk.Data())
}

func TestPacketSize(t *testing.T) {
	assert.Equal(t, flow.NewPacket(int64(0)).Size(), flow.NewPacket(int64(1)).Size())
	assert.NotZero(t, flow.NewPacket("").Size())
}
