package event

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/huntgo/server/internal/core/ecs"
)

// Signals emitted by the combat core. All are fire-and-forget: listeners
// (VFX, loot, persistence) react but never feed back into the emitter.

// TargetAcquired fires when an agent claims a new attack target.
type TargetAcquired struct {
	Agent  ecs.EntityID
	Target ecs.EntityID
}

// TargetLost fires when an agent drops or loses its target.
type TargetLost struct {
	Agent ecs.EntityID
}

// AttackStarted fires when an attack cycle triggers, before the wind-up
// delay elapses. Animation layers key off this.
type AttackStarted struct {
	Agent  ecs.EntityID
	Target ecs.EntityID
}

// DamageDealt fires when scheduled damage is actually applied.
type DamageDealt struct {
	Agent  ecs.EntityID
	Target ecs.EntityID
	Amount int32
}

// Damaged fires on the receiving side of any damage application.
type Damaged struct {
	Agent  ecs.EntityID
	Amount int32
	HP     int32
	MaxHP  int32
}

// Healed fires on any successful heal.
type Healed struct {
	Agent  ecs.EntityID
	Amount int32
	HP     int32
	MaxHP  int32
}

// Died fires exactly once per death transition. Overkill is the damage
// beyond what was needed to reach zero.
type Died struct {
	Agent    ecs.EntityID
	Killer   ecs.EntityID // zero when death had no attacker
	Overkill int32
	Layer    int16
	Pos      mgl64.Vec2
}

// LootClaimed fires when a carrier wins the exclusive claim on an item.
type LootClaimed struct {
	Agent ecs.EntityID
	Item  ecs.EntityID
}

// LootTaken fires when a carrier actually collects a claimed item.
type LootTaken struct {
	Agent ecs.EntityID
	Item  ecs.EntityID
}
