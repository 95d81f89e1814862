package system

import (
	"time"

	"github.com/huntgo/server/internal/core/ecs"
	"github.com/huntgo/server/internal/core/event"
	"github.com/huntgo/server/internal/scripting"
	"github.com/huntgo/server/internal/world"
)

// CombatDriver implements the per-agent combat decision operations that
// the mob and combatant state machines dispatch into: scan, acquire,
// validate, and timed attack execution with delayed damage. It is the
// only component that schedules attacks; damage lands later through
// DeferredDamageSystem.
type CombatDriver struct {
	world       *world.State
	bus         *event.Bus
	lua         *scripting.Engine
	attackDelay time.Duration
}

func NewCombatDriver(ws *world.State, bus *event.Bus, lua *scripting.Engine, attackDelay time.Duration) *CombatDriver {
	return &CombatDriver{
		world:       ws,
		bus:         bus,
		lua:         lua,
		attackDelay: attackDelay,
	}
}

// Acquire scans for a target through the layer's target manager and
// claims the winner. Behavior gates apply: Passive never scans,
// Defensive scans only after having been damaged. Returns true when the
// agent holds a target afterward.
func (d *CombatDriver) Acquire(id ecs.EntityID, t *world.Transform, c *world.Combat) bool {
	if !c.Profile.CanAttack {
		return false
	}
	switch c.Profile.Behavior {
	case world.BehaviorPassive:
		return false
	case world.BehaviorDefensive:
		if !c.WasDamaged {
			return false
		}
	}
	mgr := d.world.Layer(t.Layer).Targets
	target, ok := mgr.RequestTarget(id, t.Pos, c.EffectiveScanRange(), func(cand ecs.EntityID) bool {
		return d.world.HostileTo(id, c.Profile.Hostile, cand)
	})
	if !ok {
		return false
	}
	if target != c.Target {
		c.Target = target
		event.Emit(d.bus, event.TargetAcquired{Agent: id, Target: target})
	}
	return true
}

// Validate re-checks the held target every tick: it must be alive, not
// dead, and still reserved by this agent. The manager's sweep can drop
// a reservation out from under an agent, so a cached flag is never
// trusted. Invalid targets are released and TargetLost fires.
func (d *CombatDriver) Validate(id ecs.EntityID, t *world.Transform, c *world.Combat) bool {
	if c.Target.IsZero() {
		return false
	}
	mgr := d.world.Layer(t.Layer).Targets
	if d.targetValid(id, c.Target, mgr) {
		return true
	}
	mgr.ReleaseByAttacker(id)
	d.DropTarget(id, c)
	return false
}

func (d *CombatDriver) targetValid(id, target ecs.EntityID, mgr *world.TargetManager) bool {
	if !d.world.Alive(target) {
		return false
	}
	if h, ok := d.world.Healths.Get(target); ok && h.Dead {
		return false
	}
	return mgr.IsReservedBy(target, id)
}

// DropTarget clears the held target without touching the manager (the
// caller releases when the reservation is still live) and resets the
// attack cycle so re-engagement starts fresh.
func (d *CombatDriver) DropTarget(id ecs.EntityID, c *world.Combat) {
	if c.Target.IsZero() {
		return
	}
	c.Target = 0
	c.Timer.Reset()
	c.Pending = nil
	event.Emit(d.bus, event.TargetLost{Agent: id})
}

// Disengage releases the agent's reservation and drops the target.
func (d *CombatDriver) Disengage(id ecs.EntityID, t *world.Transform, c *world.Combat) {
	d.world.Layer(t.Layer).Targets.ReleaseByAttacker(id)
	d.DropTarget(id, c)
}

// InAttackRange reports whether the target is within the tight attack
// threshold.
func (d *CombatDriver) InAttackRange(t *world.Transform, c *world.Combat) bool {
	pos, ok := d.world.Position(c.Target)
	if !ok {
		return false
	}
	r := c.Profile.AttackRange
	return world.DistSq(t.Pos, pos) <= r*r
}

// OutOfChaseRange reports whether the target has escaped beyond the
// loose chase-break threshold. The gap between this and the attack
// threshold is the hysteresis that stops Seek/Attack flicker.
func (d *CombatDriver) OutOfChaseRange(t *world.Transform, c *world.Combat) bool {
	pos, ok := d.world.Position(c.Target)
	if !ok {
		return true
	}
	r := c.Profile.ChaseBreakRange
	if r < c.Profile.AttackRange {
		r = c.Profile.AttackRange
	}
	return world.DistSq(t.Pos, pos) > r*r
}

// TickAttack advances the attack timer and, on a consumed cycle, rolls
// damage and schedules it after the wind-up delay. The interval is
// re-read from the profile every tick so rate changes take effect
// immediately, mid-cycle accumulation included.
func (d *CombatDriver) TickAttack(id ecs.EntityID, t *world.Transform, c *world.Combat, dt time.Duration) {
	c.Timer.SetInterval(c.Profile.AttackInterval)
	c.Timer.Tick(dt)
	if !c.Timer.TryConsumeCycle() {
		return
	}

	amount := c.Profile.Damage
	if d.lua != nil {
		ah, _ := d.world.Healths.Get(id)
		th, _ := d.world.Healths.Get(c.Target)
		ctx := scripting.AttackContext{AttackerDamage: int(c.Profile.Damage)}
		if ah != nil {
			ctx.AttackerHP, ctx.AttackerMaxHP = int(ah.HP), int(ah.MaxHP)
		}
		if th != nil {
			ctx.TargetHP, ctx.TargetMaxHP = int(th.HP), int(th.MaxHP)
		}
		if tc, ok := d.world.Combats.Get(c.Target); ok {
			ctx.TargetDefense = int(tc.Profile.Defense)
		}
		res := d.lua.CalcAttackDamage(ctx)
		if !res.IsHit {
			event.Emit(d.bus, event.AttackStarted{Agent: id, Target: c.Target})
			return // swing animation still plays on a miss
		}
		amount = int32(res.Damage)
	}

	event.Emit(d.bus, event.AttackStarted{Agent: id, Target: c.Target})
	// One pending slot per agent: a new swing replaces a still-pending one.
	c.Pending = &world.PendingHit{
		Target: c.Target,
		Amount: amount,
		Delay:  d.attackDelay,
	}
}

// OnTookDamage is the damage-received hook. Defensive agents arm their
// scan gate and, when the attacker is a valid hostile target with a free
// capacity slot, lock onto it immediately instead of waiting for the
// next scan cycle.
func (d *CombatDriver) OnTookDamage(victim, attacker ecs.EntityID) {
	c, ok := d.world.Combats.Get(victim)
	if !ok {
		return
	}
	c.WasDamaged = true
	if c.Profile.Behavior != world.BehaviorDefensive || !c.Target.IsZero() {
		return
	}
	t, ok := d.world.Transforms.Get(victim)
	if !ok {
		return
	}
	if !d.world.HostileTo(victim, c.Profile.Hostile, attacker) {
		return
	}
	if d.world.Layer(t.Layer).Targets.TryReserve(attacker, victim) {
		c.Target = attacker
		event.Emit(d.bus, event.TargetAcquired{Agent: victim, Target: attacker})
	}
}
