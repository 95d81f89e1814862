package system

import (
	"time"

	"github.com/huntgo/server/internal/core/ecs"
	"github.com/huntgo/server/internal/core/event"
	coresys "github.com/huntgo/server/internal/core/system"
	"github.com/huntgo/server/internal/world"
)

// pickupRange is how close a carrier must get before collecting.
const pickupRange = 1.0

// CarrierSystem drives loot carriers: claim the nearest unclaimed
// ground item through the layer's loot manager, walk to it, collect it.
// The exclusive claim means two carriers never race for the same item
// even when both scan it in the same tick. Phase 1 (Update).
type CarrierSystem struct {
	world *world.State
	bus   *event.Bus
}

func NewCarrierSystem(ws *world.State, bus *event.Bus) *CarrierSystem {
	return &CarrierSystem{world: ws, bus: bus}
}

func (s *CarrierSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *CarrierSystem) Update(dt time.Duration) {
	ecs.Each3(s.world.Carriers, s.world.Combats, s.world.Transforms,
		func(id ecs.EntityID, cr *world.Carrier, c *world.Combat, t *world.Transform) {
			if h, ok := s.world.Healths.Get(id); ok && h.Dead {
				return
			}
			s.tick(id, cr, c, t, dt)
		})
}

func (s *CarrierSystem) tick(id ecs.EntityID, cr *world.Carrier, c *world.Combat, t *world.Transform, dt time.Duration) {
	loot := s.world.Layer(t.Layer).Loot

	// Re-validate the claim each tick; the item may have been collected
	// by nothing (despawned) or swept.
	if !cr.Item.IsZero() {
		if !s.world.Alive(cr.Item) || !loot.IsReservedBy(cr.Item, id) {
			cr.Item = 0
		}
	}

	if cr.Item.IsZero() {
		item, ok := loot.RequestNearest(id, t.Pos, c.Profile.ScanRange, nil)
		if !ok {
			return
		}
		cr.Item = item
		event.Emit(s.bus, event.LootClaimed{Agent: id, Item: item})
	}

	pos, ok := s.world.Position(cr.Item)
	if !ok {
		loot.ReleaseByClaimer(id)
		cr.Item = 0
		return
	}
	if world.DistSq(t.Pos, pos) > pickupRange*pickupRange {
		moveToward(s.world, id, t, pos, c.Profile.MoveSpeed, dt)
		return
	}

	// Collect: the item handle goes away for good.
	item := cr.Item
	cr.Item = 0
	cr.Carried++
	s.world.Destroy(item)
	event.Emit(s.bus, event.LootTaken{Agent: id, Item: item})
}
