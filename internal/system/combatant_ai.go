package system

import (
	"time"

	"github.com/huntgo/server/internal/core/ecs"
	coresys "github.com/huntgo/server/internal/core/system"
	"github.com/huntgo/server/internal/world"
)

// CombatantSystem drives hired combatants: hold an anchor post, scan
// for hostiles, fight through the same acquire/seek/attack path as
// mobs, and walk back to the post when nothing is left to fight.
// Phase 1 (Update).
type CombatantSystem struct {
	world  *world.State
	driver *CombatDriver
}

func NewCombatantSystem(ws *world.State, driver *CombatDriver) *CombatantSystem {
	return &CombatantSystem{world: ws, driver: driver}
}

func (s *CombatantSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *CombatantSystem) Update(dt time.Duration) {
	ecs.Each3(s.world.Combatants, s.world.Combats, s.world.Transforms,
		func(id ecs.EntityID, cb *world.Combatant, c *world.Combat, t *world.Transform) {
			if h, ok := s.world.Healths.Get(id); ok && h.Dead {
				return
			}
			s.tick(id, cb, c, t, dt)
		})
}

func (s *CombatantSystem) tick(id ecs.EntityID, cb *world.Combatant, c *world.Combat, t *world.Transform, dt time.Duration) {
	hasTarget := s.driver.Validate(id, t, c)
	if !hasTarget {
		if cb.State > world.StateWander {
			cb.State = world.StateIdle
		}
		hasTarget = s.driver.Acquire(id, t, c)
	}
	// Retaliation can hand the agent a target outside this state
	// machine; either way a held target means fight.
	if hasTarget && cb.State < world.StateSeek {
		cb.State = world.StateSeek
	}

	switch cb.State {
	case world.StateIdle, world.StateWander:
		// Off duty: return to post.
		moveToward(s.world, id, t, cb.Anchor, c.Profile.MoveSpeed, dt)
	case world.StateSeek:
		if s.driver.InAttackRange(t, c) {
			cb.State = world.StateAttack
			return
		}
		pos, ok := s.world.Position(c.Target)
		if !ok {
			s.driver.Disengage(id, t, c)
			cb.State = world.StateIdle
			return
		}
		moveToward(s.world, id, t, pos, c.Profile.MoveSpeed, dt)
	case world.StateAttack:
		if s.driver.OutOfChaseRange(t, c) {
			cb.State = world.StateSeek
			return
		}
		s.driver.TickAttack(id, t, c, dt)
	}
}
