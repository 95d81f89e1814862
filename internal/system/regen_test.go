package system

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huntgo/server/internal/core/event"
)

func TestRegenHealsWoundedAgent(t *testing.T) {
	h := newSim(t, 100*time.Millisecond)
	h.runner.Register(NewRegenSystem(h.world, h.bus, nil, time.Second))
	deer := h.world.SpawnAgent(deerTemplate(), 1, mgl64.Vec2{0, 0})
	hp, ok := h.world.Healths.Get(deer)
	require.True(t, ok)
	hp.Damage(10)

	var pulses []event.Healed
	event.Subscribe(h.bus, func(ev event.Healed) { pulses = append(pulses, ev) })

	// 6 ticks of 200ms: one pulse fires at the 1s mark, its signal is
	// dispatched the tick after.
	h.tick(6)

	require.Len(t, pulses, 1)
	assert.Equal(t, deer, pulses[0].Agent)
	assert.Equal(t, int32(1), pulses[0].Amount)
	assert.Equal(t, int32(11), hp.HP)
}

func TestRegenStopsAtMaxHP(t *testing.T) {
	h := newSim(t, 100*time.Millisecond)
	h.runner.Register(NewRegenSystem(h.world, h.bus, nil, time.Second))
	deer := h.world.SpawnAgent(deerTemplate(), 1, mgl64.Vec2{0, 0})
	hp, ok := h.world.Healths.Get(deer)
	require.True(t, ok)
	hp.Damage(2)

	pulses := 0
	event.Subscribe(h.bus, func(ev event.Healed) { pulses++ })

	// Pulses at 1s and 2s close the 2 HP gap; after that the agent is
	// full and regen goes quiet.
	h.tick(30)

	assert.Equal(t, 2, pulses)
	assert.Equal(t, hp.MaxHP, hp.HP)
}

func TestRegenSkipsFullAndDead(t *testing.T) {
	h := newSim(t, 100*time.Millisecond)
	h.runner.Register(NewRegenSystem(h.world, h.bus, nil, time.Second))
	full := h.world.SpawnAgent(deerTemplate(), 1, mgl64.Vec2{0, 0})
	dead := h.world.SpawnAgent(deerTemplate(), 1, mgl64.Vec2{5, 0})
	deadHP, ok := h.world.Healths.Get(dead)
	require.True(t, ok)
	deadHP.Kill()

	pulses := 0
	event.Subscribe(h.bus, func(ev event.Healed) { pulses++ })

	h.tick(10)

	assert.Equal(t, 0, pulses)
	fullHP, ok := h.world.Healths.Get(full)
	require.True(t, ok)
	assert.Equal(t, fullHP.MaxHP, fullHP.HP)
	assert.Equal(t, int32(0), deadHP.HP)
	assert.True(t, deadHP.Dead)
}
