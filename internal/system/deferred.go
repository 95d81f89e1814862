package system

import (
	"time"

	"github.com/huntgo/server/internal/core/ecs"
	"github.com/huntgo/server/internal/core/event"
	coresys "github.com/huntgo/server/internal/core/system"
	"github.com/huntgo/server/internal/world"
)

// DeferredDamageSystem drains the per-agent pending damage slots: the
// wind-up between a swing and its damage landing. A slot whose target
// (or owner) died in the meantime is dropped silently; that is
// cancellation, not an error. Phase 2 (PostUpdate), after all AI ran.
type DeferredDamageSystem struct {
	world  *world.State
	bus    *event.Bus
	driver *CombatDriver
}

func NewDeferredDamageSystem(ws *world.State, bus *event.Bus, driver *CombatDriver) *DeferredDamageSystem {
	return &DeferredDamageSystem{world: ws, bus: bus, driver: driver}
}

func (s *DeferredDamageSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *DeferredDamageSystem) Update(dt time.Duration) {
	s.world.Combats.Each(func(id ecs.EntityID, c *world.Combat) {
		if c.Pending == nil {
			return
		}
		if !s.world.Alive(id) {
			c.Pending = nil
			return
		}
		c.Pending.Delay -= dt
		if c.Pending.Delay > 0 {
			return
		}
		hit := *c.Pending
		c.Pending = nil
		s.apply(id, c, hit)
	})
}

func (s *DeferredDamageSystem) apply(attacker ecs.EntityID, c *world.Combat, hit world.PendingHit) {
	if !s.world.Alive(hit.Target) {
		return // target destroyed mid wind-up: scheduled damage evaporates
	}
	h, ok := s.world.Healths.Get(hit.Target)
	if !ok {
		return
	}

	res := h.Damage(hit.Amount)
	if res.Applied == 0 {
		// Dead, invulnerable, or otherwise inert: stop hitting it.
		if t, ok := s.world.Transforms.Get(attacker); ok {
			s.driver.Disengage(attacker, t, c)
		} else {
			s.driver.DropTarget(attacker, c)
		}
		return
	}

	event.Emit(s.bus, event.DamageDealt{Agent: attacker, Target: hit.Target, Amount: res.Applied})
	event.Emit(s.bus, event.Damaged{Agent: hit.Target, Amount: res.Applied, HP: h.HP, MaxHP: h.MaxHP})
	s.driver.OnTookDamage(hit.Target, attacker)

	if res.Died {
		pos, _ := s.world.Position(hit.Target)
		layer := int16(0)
		if t, ok := s.world.Transforms.Get(hit.Target); ok {
			layer = t.Layer
		}
		event.Emit(s.bus, event.Died{
			Agent:    hit.Target,
			Killer:   attacker,
			Overkill: res.Overkill,
			Layer:    layer,
			Pos:      pos,
		})
		if t, ok := s.world.Transforms.Get(attacker); ok {
			s.driver.Disengage(attacker, t, c)
		}
	}
}
