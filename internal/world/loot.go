package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/huntgo/server/internal/core/ecs"
)

// LootManager hands out exclusive claims on one layer's ground items: an
// item is held by at most one claimer and a claimer holds at most one
// item. First-scanned-wins; no fairness across claimers is promised.
// Single simulation goroutine only.
type LootManager struct {
	grid      *Grid
	byItem    map[ecs.EntityID]ecs.EntityID // item → claimer
	byClaimer map[ecs.EntityID]ecs.EntityID // claimer → item
	alive     func(ecs.EntityID) bool
	position  func(ecs.EntityID) (mgl64.Vec2, bool)
	queryBuf  []ecs.EntityID
}

func NewLootManager(cellSize float64, alive func(ecs.EntityID) bool, position func(ecs.EntityID) (mgl64.Vec2, bool)) *LootManager {
	return &LootManager{
		grid:      NewGrid(cellSize, alive),
		byItem:    make(map[ecs.EntityID]ecs.EntityID),
		byClaimer: make(map[ecs.EntityID]ecs.EntityID),
		alive:     alive,
		position:  position,
	}
}

// RegisterItem adds a ground item to the index.
func (m *LootManager) RegisterItem(id ecs.EntityID, pos mgl64.Vec2) {
	m.grid.Register(id, pos)
}

// UnregisterItem removes an item from the index and releases any claim
// on it. Called by the owner before the handle becomes invalid.
func (m *LootManager) UnregisterItem(id ecs.EntityID) {
	m.grid.Unregister(id)
	m.Release(id)
}

// RequestNearest returns the nearest unclaimed item within radius and
// claims it for the claimer. If the claimer already holds a claim on an
// item still present in the index, that item is returned unchanged;
// repeated calls never flap between targets. A non-nil accept predicate
// further filters candidates.
func (m *LootManager) RequestNearest(claimer ecs.EntityID, pos mgl64.Vec2, radius float64, accept func(ecs.EntityID) bool) (ecs.EntityID, bool) {
	if claimer.IsZero() {
		return 0, false
	}
	if held, ok := m.byClaimer[claimer]; ok {
		if m.grid.Contains(held) && (m.alive == nil || m.alive(held)) {
			return held, true
		}
		m.Release(held)
	}

	m.queryBuf = m.grid.QueryRadiusInto(pos, radius, m.queryBuf)
	maxDistSq := radius * radius
	best := ecs.EntityID(0)
	bestDistSq := 0.0
	for _, id := range m.queryBuf {
		if holder, claimed := m.byItem[id]; claimed && holder != claimer {
			continue
		}
		if accept != nil && !accept(id) {
			continue
		}
		p, ok := m.position(id)
		if !ok {
			continue
		}
		d := DistSq(pos, p)
		if d > maxDistSq {
			continue // grid cells over-approximate the circle
		}
		if best.IsZero() || d < bestDistSq {
			best = id
			bestDistSq = d
		}
	}
	if best.IsZero() {
		return 0, false
	}
	m.reserve(best, claimer)
	return best, true
}

func (m *LootManager) reserve(item, claimer ecs.EntityID) {
	if prev, ok := m.byClaimer[claimer]; ok && prev != item {
		delete(m.byItem, prev)
	}
	m.byItem[item] = claimer
	m.byClaimer[claimer] = item
}

// Release clears the claim on an item, if any.
func (m *LootManager) Release(item ecs.EntityID) {
	if claimer, ok := m.byItem[item]; ok {
		delete(m.byItem, item)
		delete(m.byClaimer, claimer)
	}
}

// ReleaseByClaimer clears the claimer's claim, if any. The spawner must
// call this before destroying an agent that might hold a claim.
func (m *LootManager) ReleaseByClaimer(claimer ecs.EntityID) {
	if item, ok := m.byClaimer[claimer]; ok {
		delete(m.byClaimer, claimer)
		delete(m.byItem, item)
	}
}

// IsReserved reports whether any claimer holds the item.
func (m *LootManager) IsReserved(item ecs.EntityID) bool {
	_, ok := m.byItem[item]
	return ok
}

// IsReservedBy reports whether the given claimer holds the item.
func (m *LootManager) IsReservedBy(item, claimer ecs.EntityID) bool {
	holder, ok := m.byItem[item]
	return ok && holder == claimer
}

// HeldBy returns the item currently claimed by the claimer, if any.
func (m *LootManager) HeldBy(claimer ecs.EntityID) (ecs.EntityID, bool) {
	item, ok := m.byClaimer[claimer]
	return item, ok
}

// Sweep drops destroyed items from the index and discards claims whose
// item or claimer is gone. Self-healing for owners that failed the
// release-before-destroy contract. Returns entries removed.
func (m *LootManager) Sweep() int {
	removed := m.grid.Sweep()
	if m.alive == nil {
		return removed
	}
	for item, claimer := range m.byItem {
		if m.alive(item) && m.alive(claimer) {
			continue
		}
		delete(m.byItem, item)
		delete(m.byClaimer, claimer)
		removed++
	}
	return removed
}

// ItemCount returns the number of indexed items, stale entries included.
func (m *LootManager) ItemCount() int {
	return m.grid.Len()
}
