package system

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/huntgo/server/internal/core/ecs"
	coresys "github.com/huntgo/server/internal/core/system"
	"github.com/huntgo/server/internal/scripting"
	"github.com/huntgo/server/internal/world"
)

// wanderSpeedFactor slows wandering relative to chase speed; creatures
// amble when nothing is worth chasing.
const wanderSpeedFactor = 0.5

// MobSystem drives hostile-creature state machines: Idle/Wander with no
// target, Seeking while approaching, Attacking in range. Go handles
// target detection and command execution; the optional Lua policy can
// override the action choice per tick. Phase 1 (Update).
type MobSystem struct {
	world  *world.State
	driver *CombatDriver
	lua    *scripting.Engine
}

func NewMobSystem(ws *world.State, driver *CombatDriver, lua *scripting.Engine) *MobSystem {
	return &MobSystem{world: ws, driver: driver, lua: lua}
}

func (s *MobSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MobSystem) Update(dt time.Duration) {
	ecs.Each3(s.world.Mobs, s.world.Combats, s.world.Transforms,
		func(id ecs.EntityID, m *world.Mob, c *world.Combat, t *world.Transform) {
			if h, ok := s.world.Healths.Get(id); ok && h.Dead {
				return
			}
			s.tick(id, m, c, t, dt)
		})
}

func (s *MobSystem) tick(id ecs.EntityID, m *world.Mob, c *world.Combat, t *world.Transform, dt time.Duration) {
	// Re-validate every tick while holding a target: the manager's
	// sweep may have dropped the reservation out from under us.
	hasTarget := s.driver.Validate(id, t, c)
	if !hasTarget && m.State > world.StateWander {
		m.State = world.StateIdle
	}

	if !hasTarget {
		if s.driver.Acquire(id, t, c) {
			hasTarget = true
			m.WanderLeft = 0 // snap out of wander, react immediately
		}
	}
	// Covers both acquisition paths: the scan above and retaliation
	// locking a target outside this state machine.
	if hasTarget && m.State < world.StateSeek {
		m.State = world.StateSeek
	}

	if cmd, ok := s.luaDecision(id, m, c, t, hasTarget); ok {
		s.execute(cmd, id, m, c, t, dt)
		return
	}

	switch m.State {
	case world.StateIdle, world.StateWander:
		s.wander(id, m, c, t, dt)
	case world.StateSeek:
		if s.driver.InAttackRange(t, c) {
			m.State = world.StateAttack
			return
		}
		pos, ok := s.world.Position(c.Target)
		if !ok {
			s.driver.Disengage(id, t, c)
			m.State = world.StateIdle
			return
		}
		moveToward(s.world, id, t, pos, c.Profile.MoveSpeed, dt)
	case world.StateAttack:
		if s.driver.OutOfChaseRange(t, c) {
			m.State = world.StateSeek // hysteresis: loose break threshold
			return
		}
		s.driver.TickAttack(id, t, c, dt)
	}
}

// luaDecision consults the scripted mob policy when one is loaded.
func (s *MobSystem) luaDecision(id ecs.EntityID, m *world.Mob, c *world.Combat, t *world.Transform, hasTarget bool) (string, bool) {
	if s.lua == nil {
		return "", false
	}
	h, ok := s.world.Healths.Get(id)
	if !ok {
		return "", false
	}
	ident, _ := s.world.Identities.Get(id)
	ctx := scripting.MobContext{
		HP:          int(h.HP),
		MaxHP:       int(h.MaxHP),
		TargetDist:  -1,
		AttackRange: c.Profile.AttackRange,
		ChaseRange:  c.Profile.ChaseBreakRange,
		HomeDist:    math.Sqrt(world.DistSq(t.Pos, m.Home)),
		CanAttack:   c.Profile.CanAttack,
	}
	if ident != nil {
		ctx.TemplateID = int(ident.TemplateID)
	}
	if hasTarget {
		if pos, ok := s.world.Position(c.Target); ok {
			ctx.TargetDist = math.Sqrt(world.DistSq(t.Pos, pos))
		}
	}
	return s.lua.DecideMobAction(ctx)
}

func (s *MobSystem) execute(cmd string, id ecs.EntityID, m *world.Mob, c *world.Combat, t *world.Transform, dt time.Duration) {
	switch cmd {
	case "attack":
		if !c.Target.IsZero() {
			m.State = world.StateAttack
			s.driver.TickAttack(id, t, c, dt)
		}
	case "chase":
		if pos, ok := s.world.Position(c.Target); ok {
			m.State = world.StateSeek
			moveToward(s.world, id, t, pos, c.Profile.MoveSpeed, dt)
		}
	case "disengage":
		s.driver.Disengage(id, t, c)
		m.State = world.StateIdle
	case "wander":
		m.State = world.StateWander
		s.wander(id, m, c, t, dt)
	default: // "idle" or anything unrecognized
		m.State = world.StateIdle
	}
}

// wander ambles the mob around its home anchor: walk a short random
// leg, idle, pick another. Legs that would stray past the leash turn
// back toward home first.
func (s *MobSystem) wander(id ecs.EntityID, m *world.Mob, c *world.Combat, t *world.Transform, dt time.Duration) {
	if m.WanderLeft <= 0 {
		// Most ticks stay idle; occasionally start a new leg.
		if rand.Float64() > 0.02 {
			m.State = world.StateIdle
			return
		}
		leash := c.EffectiveScanRange() * 2
		if leash > 0 && world.DistSq(t.Pos, m.Home) > leash*leash {
			dir := m.Home.Sub(t.Pos)
			if l := dir.Len(); l > 0 {
				m.WanderDir = dir.Mul(1 / l)
			}
		} else {
			angle := rand.Float64() * 2 * math.Pi
			m.WanderDir = mgl64.Vec2{math.Cos(angle), math.Sin(angle)}
		}
		m.WanderLeft = 2 + rand.Float64()*4
	}
	m.State = world.StateWander
	step := c.Profile.MoveSpeed * wanderSpeedFactor * dt.Seconds()
	if step > m.WanderLeft {
		step = m.WanderLeft
	}
	m.WanderLeft -= step
	s.world.MoveAgent(id, t.Pos.Add(m.WanderDir.Mul(step)))
}
