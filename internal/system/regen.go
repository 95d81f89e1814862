package system

import (
	"time"

	"github.com/huntgo/server/internal/core/ecs"
	"github.com/huntgo/server/internal/core/event"
	coresys "github.com/huntgo/server/internal/core/system"
	"github.com/huntgo/server/internal/scripting"
	"github.com/huntgo/server/internal/world"
)

// RegenSystem restores HP to living agents on a fixed pulse cadence.
// Ticks accumulate between pulses, so the cadence is independent of the
// tick rate. The pulse amount comes from Lua when the scripts define
// it. Phase 2 (PostUpdate).
type RegenSystem struct {
	world *world.State
	bus   *event.Bus
	lua   *scripting.Engine
	timer world.CyclicTimer
}

func NewRegenSystem(ws *world.State, bus *event.Bus, lua *scripting.Engine, interval time.Duration) *RegenSystem {
	return &RegenSystem{
		world: ws,
		bus:   bus,
		lua:   lua,
		timer: world.NewCyclicTimer(interval),
	}
}

func (s *RegenSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *RegenSystem) Update(dt time.Duration) {
	s.timer.Tick(dt)
	if !s.timer.TryConsumeCycle() {
		return
	}
	s.world.Healths.Each(func(id ecs.EntityID, h *world.Health) {
		s.pulse(id, h)
	})
}

func (s *RegenSystem) pulse(id ecs.EntityID, h *world.Health) {
	if h.Dead || h.HP >= h.MaxHP {
		return
	}
	applied := h.Heal(s.pulseAmount(h))
	if applied == 0 {
		return
	}
	event.Emit(s.bus, event.Healed{
		Agent:  id,
		Amount: applied,
		HP:     h.HP,
		MaxHP:  h.MaxHP,
	})
}

func (s *RegenSystem) pulseAmount(h *world.Health) int32 {
	if s.lua != nil {
		return int32(s.lua.CalcRegenAmount(scripting.RegenContext{
			HP:    int(h.HP),
			MaxHP: int(h.MaxHP),
		}))
	}
	amount := h.MaxHP / 20
	if amount < 1 {
		amount = 1
	}
	return amount
}
