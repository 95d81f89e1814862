package world

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/huntgo/server/internal/core/ecs"
)

// Category classifies an agent for hostility resolution. The set is
// closed: masks are plain bit flags, no dynamic dispatch.
type Category uint8

const (
	CategoryMob       Category = 1 << iota // hostile creatures
	CategoryCombatant                      // hired combatants
	CategoryCarrier                        // loot carriers
	CategoryWildlife                       // neutral critters
)

// Hostility is a bitmask of categories an agent treats as valid targets.
type Hostility uint8

func (h Hostility) Includes(c Category) bool {
	return h&Hostility(c) != 0
}

// Behavior selects the combat scan policy of an agent.
type Behavior uint8

const (
	BehaviorPassive     Behavior = iota // never scans
	BehaviorDefensive                   // scans only after taking damage
	BehaviorAggressive                  // scans every scan cycle
	BehaviorTerritorial                 // aggressive within territorial range of home
)

// Transform is the current world position of a tracked entity. The
// spatial index never moves anything itself; movement systems write here
// and push the change into the layer grids.
type Transform struct {
	Pos   mgl64.Vec2
	Layer int16
}

// Identity carries static classification, shared by hostility checks,
// loot rolls, and the kill log.
type Identity struct {
	TemplateID int32
	Name       string
	Category   Category
}

// CombatProfile is immutable after spawn.
type CombatProfile struct {
	CanAttack        bool
	Behavior         Behavior
	Hostile          Hostility
	ScanRange        float64
	TerritorialRange float64 // used instead of ScanRange when Territorial
	AttackRange      float64
	ChaseBreakRange  float64 // looser than AttackRange: hysteresis
	AttackInterval   time.Duration
	Damage           int32
	Defense          int32
	MoveSpeed        float64 // world units per second
}

// PendingHit is the single deferred damage slot per agent: the attack
// animation wind-up. Starting a new attack replaces it; target or
// attacker death before Delay elapses silently drops it.
type PendingHit struct {
	Target ecs.EntityID
	Amount int32
	Delay  time.Duration // counts down each tick
}

// Combat is the per-agent combat decision state.
type Combat struct {
	Profile    CombatProfile
	Timer      CyclicTimer
	Target     ecs.EntityID
	WasDamaged bool // gates Defensive scanning
	Pending    *PendingHit
}

// EffectiveScanRange resolves the radius used for target scans.
func (c *Combat) EffectiveScanRange() float64 {
	if c.Profile.Behavior == BehaviorTerritorial && c.Profile.TerritorialRange > 0 {
		return c.Profile.TerritorialRange
	}
	return c.Profile.ScanRange
}

// AgentState is the coarse state machine phase shared by mob and
// combatant agents.
type AgentState uint8

const (
	StateIdle AgentState = iota
	StateWander
	StateSeek
	StateAttack
)

// Mob is the state of a hostile creature agent.
type Mob struct {
	State      AgentState
	Home       mgl64.Vec2 // spawn anchor: wander center, territorial origin
	WanderDir  mgl64.Vec2
	WanderLeft float64 // distance left to walk in WanderDir
}

// Combatant is the state of a hired combatant. Anchor is the post it
// holds when it has nothing to fight.
type Combatant struct {
	State  AgentState
	Anchor mgl64.Vec2
}

// Carrier is the state of a loot carrier agent.
type Carrier struct {
	Item    ecs.EntityID // currently claimed ground item (zero = none)
	Carried int32        // items collected so far
}

// LootItem marks a collectible lying in the world.
type LootItem struct {
	ItemID int32
	Count  int32
}

// DistSq returns squared euclidean distance; all range comparisons in
// the core are done squared to avoid the sqrt.
func DistSq(a, b mgl64.Vec2) float64 {
	dx := a.X() - b.X()
	dy := a.Y() - b.Y()
	return dx*dx + dy*dy
}
