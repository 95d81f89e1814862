package world

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/huntgo/server/internal/core/ecs"
	"github.com/huntgo/server/internal/data"
)

// Layer bundles the spatial/reservation infrastructure of one coarse
// world partition. Each layer owns its own pair of managers; nothing is
// shared across layers.
type Layer struct {
	ID      int16
	Targets *TargetManager
	Loot    *LootManager
}

// Options configures layer construction.
type Options struct {
	CellSize        float64 // grid cell size, chosen near the typical scan radius
	DefaultCapacity int     // attacker capacity fallback for targets
}

// State tracks all simulated agents and ground items. It owns the ECS
// world, the component stores, and the per-layer manager pairs. There is
// no ambient singleton: tests construct a State (or a bare manager) and
// drive it directly. Single simulation goroutine only.
type State struct {
	ecs  *ecs.World
	opts Options

	Transforms *ecs.Store[Transform]
	Identities *ecs.Store[Identity]
	Healths    *ecs.Store[Health]
	Combats    *ecs.Store[Combat]
	Mobs       *ecs.Store[Mob]
	Combatants *ecs.Store[Combatant]
	Carriers   *ecs.Store[Carrier]
	LootItems  *ecs.Store[LootItem]

	layers map[int16]*Layer
}

func NewState(ecsWorld *ecs.World, opts Options) *State {
	if opts.CellSize <= 0 {
		opts.CellSize = 16
	}
	if opts.DefaultCapacity < 1 {
		opts.DefaultCapacity = 3
	}
	s := &State{
		ecs:        ecsWorld,
		opts:       opts,
		Transforms: ecs.NewStore[Transform](),
		Identities: ecs.NewStore[Identity](),
		Healths:    ecs.NewStore[Health](),
		Combats:    ecs.NewStore[Combat](),
		Mobs:       ecs.NewStore[Mob](),
		Combatants: ecs.NewStore[Combatant](),
		Carriers:   ecs.NewStore[Carrier](),
		LootItems:  ecs.NewStore[LootItem](),
		layers:     make(map[int16]*Layer),
	}
	reg := ecsWorld.Registry()
	reg.Register(s.Transforms)
	reg.Register(s.Identities)
	reg.Register(s.Healths)
	reg.Register(s.Combats)
	reg.Register(s.Mobs)
	reg.Register(s.Combatants)
	reg.Register(s.Carriers)
	reg.Register(s.LootItems)
	return s
}

func (s *State) ECS() *ecs.World { return s.ecs }

// Alive reports whether a handle still refers to a live entity. This is
// the liveness predicate every grid and manager filters through.
func (s *State) Alive(id ecs.EntityID) bool {
	return s.ecs.Alive(id)
}

// Position returns an entity's current world position.
func (s *State) Position(id ecs.EntityID) (mgl64.Vec2, bool) {
	t, ok := s.Transforms.Get(id)
	if !ok {
		return mgl64.Vec2{}, false
	}
	return t.Pos, true
}

// Layer returns the manager pair for a layer, creating it on first use.
func (s *State) Layer(id int16) *Layer {
	if l, ok := s.layers[id]; ok {
		return l
	}
	l := &Layer{
		ID:      id,
		Targets: NewTargetManager(s.opts.CellSize, s.opts.DefaultCapacity, s.Alive, s.Position),
		Loot:    NewLootManager(s.opts.CellSize, s.Alive, s.Position),
	}
	s.layers[id] = l
	return l
}

// EachLayer iterates all layers created so far.
func (s *State) EachLayer(fn func(*Layer)) {
	for _, l := range s.layers {
		fn(l)
	}
}

// SpawnAgent creates an agent from a creature template at a position.
// Attackable agents are registered as targets of their layer.
func (s *State) SpawnAgent(tpl *data.CreatureTemplate, layer int16, pos mgl64.Vec2) ecs.EntityID {
	id := s.ecs.CreateEntity()
	category := ParseCategory(tpl.Category)
	interval := time.Duration(tpl.AttackIntervalMs) * time.Millisecond
	s.Transforms.Set(id, &Transform{Pos: pos, Layer: layer})
	s.Identities.Set(id, &Identity{
		TemplateID: tpl.TemplateID,
		Name:       tpl.Name,
		Category:   category,
	})
	s.Healths.Set(id, NewHealth(tpl.MaxHP))
	s.Combats.Set(id, &Combat{
		Profile: CombatProfile{
			CanAttack:        tpl.CanAttack,
			Behavior:         ParseBehavior(tpl.Behavior),
			Hostile:          ParseHostility(tpl.Hostile),
			ScanRange:        tpl.ScanRange,
			TerritorialRange: tpl.TerritorialRange,
			AttackRange:      tpl.AttackRange,
			ChaseBreakRange:  tpl.ChaseBreakRange,
			AttackInterval:   interval,
			Damage:           tpl.Damage,
			Defense:          tpl.Defense,
			MoveSpeed:        tpl.MoveSpeed,
		},
		Timer: NewCyclicTimer(interval),
	})
	switch category {
	case CategoryMob, CategoryWildlife:
		s.Mobs.Set(id, &Mob{State: StateIdle, Home: pos})
	case CategoryCombatant:
		s.Combatants.Set(id, &Combatant{State: StateIdle, Anchor: pos})
	case CategoryCarrier:
		s.Carriers.Set(id, &Carrier{})
	}
	s.Layer(layer).Targets.RegisterTarget(id, pos, tpl.TargetCapacity)
	return id
}

// SpawnLoot creates a ground item and registers it with its layer's
// loot manager.
func (s *State) SpawnLoot(itemID, count int32, layer int16, pos mgl64.Vec2) ecs.EntityID {
	id := s.ecs.CreateEntity()
	s.Transforms.Set(id, &Transform{Pos: pos, Layer: layer})
	s.LootItems.Set(id, &LootItem{ItemID: itemID, Count: count})
	s.Layer(layer).Loot.RegisterItem(id, pos)
	return id
}

// MoveAgent writes a new position and pushes it into the layer grid.
// All agent position changes go through here to keep indices consistent.
func (s *State) MoveAgent(id ecs.EntityID, pos mgl64.Vec2) {
	t, ok := s.Transforms.Get(id)
	if !ok {
		return
	}
	t.Pos = pos
	s.Layer(t.Layer).Targets.UpdatePosition(id, pos)
}

// Destroy releases everything an entity might hold or be held by,
// unregisters it from its layer, and queues it for end-of-tick
// destruction. This is the release-before-invalid contract the managers
// otherwise only self-heal via sweep.
func (s *State) Destroy(id ecs.EntityID) {
	if t, ok := s.Transforms.Get(id); ok {
		l := s.Layer(t.Layer)
		l.Targets.UnregisterTarget(id)
		l.Targets.ReleaseByAttacker(id)
		l.Loot.UnregisterItem(id)
		l.Loot.ReleaseByClaimer(id)
	}
	s.ecs.MarkForDestruction(id)
}

// HostileTo implements the hostility rule: the candidate is alive, is
// not the agent itself, and belongs to a category in the agent's mask.
func (s *State) HostileTo(agent ecs.EntityID, mask Hostility, candidate ecs.EntityID) bool {
	if candidate == agent || !s.Alive(candidate) {
		return false
	}
	ident, ok := s.Identities.Get(candidate)
	if !ok {
		return false
	}
	if h, ok := s.Healths.Get(candidate); ok && h.Dead {
		return false
	}
	return mask.Includes(ident.Category)
}
