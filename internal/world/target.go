package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/huntgo/server/internal/core/ecs"
)

// TargetManager hands out capacity-bounded claims on one layer's
// attackable entities. A target accepts up to its declared capacity of
// simultaneous attackers (a manager-wide default when undeclared); an
// attacker holds at most one target at a time.
//
// Acquisition prefers unreserved targets over shared ones: attackers
// spread across available targets before clustering, and an at-capacity
// target is never handed out. Only when zero unreserved candidates exist
// does the nearest under-capacity target win.
//
// Single simulation goroutine only.
type TargetManager struct {
	grid            *Grid
	holders         map[ecs.EntityID][]ecs.EntityID // target → attackers, insertion order
	byAttacker      map[ecs.EntityID]ecs.EntityID   // attacker → target
	capacity        map[ecs.EntityID]int            // per-target override
	defaultCapacity int
	alive           func(ecs.EntityID) bool
	position        func(ecs.EntityID) (mgl64.Vec2, bool)
	queryBuf        []ecs.EntityID
}

func NewTargetManager(cellSize float64, defaultCapacity int, alive func(ecs.EntityID) bool, position func(ecs.EntityID) (mgl64.Vec2, bool)) *TargetManager {
	if defaultCapacity < 1 {
		defaultCapacity = 1
	}
	return &TargetManager{
		grid:            NewGrid(cellSize, alive),
		holders:         make(map[ecs.EntityID][]ecs.EntityID),
		byAttacker:      make(map[ecs.EntityID]ecs.EntityID),
		capacity:        make(map[ecs.EntityID]int),
		defaultCapacity: defaultCapacity,
		alive:           alive,
		position:        position,
	}
}

// RegisterTarget adds an attackable entity to the index. capacity <= 0
// falls back to the manager-wide default.
func (m *TargetManager) RegisterTarget(id ecs.EntityID, pos mgl64.Vec2, capacity int) {
	m.grid.Register(id, pos)
	if capacity > 0 {
		m.capacity[id] = capacity
	} else {
		delete(m.capacity, id)
	}
}

// UnregisterTarget removes a target from the index and releases all
// attackers holding it.
func (m *TargetManager) UnregisterTarget(id ecs.EntityID) {
	m.grid.Unregister(id)
	m.Release(id)
	delete(m.capacity, id)
}

// UpdatePosition pushes a registered target's new position into the grid.
func (m *TargetManager) UpdatePosition(id ecs.EntityID, pos mgl64.Vec2) {
	m.grid.UpdatePosition(id, pos)
}

// Contains reports whether the target is currently indexed.
func (m *TargetManager) Contains(id ecs.EntityID) bool {
	return m.grid.Contains(id)
}

// Capacity returns the effective attacker capacity of a target.
func (m *TargetManager) Capacity(id ecs.EntityID) int {
	if c, ok := m.capacity[id]; ok {
		return c
	}
	return m.defaultCapacity
}

// RequestTarget returns a target within radius and reserves it for the
// attacker. An existing claim on a still-indexed live target is returned
// unchanged (stability). Otherwise: nearest unreserved wins over any
// reserved candidate; only when no unreserved candidate exists does the
// nearest under-capacity one win; at-capacity targets are excluded. A
// non-nil accept predicate filters candidates (hostility is the
// caller's rule, not the manager's).
func (m *TargetManager) RequestTarget(attacker ecs.EntityID, pos mgl64.Vec2, radius float64, accept func(ecs.EntityID) bool) (ecs.EntityID, bool) {
	if attacker.IsZero() {
		return 0, false
	}
	if held, ok := m.byAttacker[attacker]; ok {
		if m.grid.Contains(held) && (m.alive == nil || m.alive(held)) {
			return held, true
		}
		m.ReleaseByAttacker(attacker)
	}

	m.queryBuf = m.grid.QueryRadiusInto(pos, radius, m.queryBuf)
	maxDistSq := radius * radius
	var bestFree, bestShared ecs.EntityID
	bestFreeDistSq, bestSharedDistSq := 0.0, 0.0
	for _, id := range m.queryBuf {
		if id == attacker {
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
			continue
		}
		n := m.holderCount(id, attacker)
		switch {
		case n == 0:
			if bestFree.IsZero() || d < bestFreeDistSq {
				bestFree = id
				bestFreeDistSq = d
			}
		case n < m.Capacity(id):
			if bestShared.IsZero() || d < bestSharedDistSq {
				bestShared = id
				bestSharedDistSq = d
			}
		}
	}

	winner := bestFree
	if winner.IsZero() {
		winner = bestShared
	}
	if winner.IsZero() {
		return 0, false
	}
	m.reserve(winner, attacker)
	return winner, true
}

// TryReserve reserves a specific target for the attacker, bypassing the
// nearest-candidate scan. Used for retaliation: a defensive agent locks
// onto whoever just hit it. Fails when the target is not indexed or is
// already at capacity.
func (m *TargetManager) TryReserve(target, attacker ecs.EntityID) bool {
	if target.IsZero() || attacker.IsZero() {
		return false
	}
	if !m.grid.Contains(target) {
		return false
	}
	if m.alive != nil && !m.alive(target) {
		return false
	}
	if m.byAttacker[attacker] == target {
		return true
	}
	if m.holderCount(target, attacker) >= m.Capacity(target) {
		return false
	}
	m.reserve(target, attacker)
	return true
}

// holderCount counts live holders of a target, excluding the requesting
// attacker's own (already released) slot.
func (m *TargetManager) holderCount(target, exclude ecs.EntityID) int {
	n := 0
	for _, a := range m.holders[target] {
		if a == exclude {
			continue
		}
		if m.alive != nil && !m.alive(a) {
			continue
		}
		n++
	}
	return n
}

func (m *TargetManager) reserve(target, attacker ecs.EntityID) {
	m.ReleaseByAttacker(attacker)
	m.pruneDeadHolders(target)
	m.holders[target] = append(m.holders[target], attacker)
	m.byAttacker[attacker] = target
	if len(m.holders[target]) > m.Capacity(target) {
		// Only the manager mutates these maps: exceeding capacity means
		// the manager itself is broken, not that input was bad.
		panic(fmt.Sprintf("world: target %d reserved beyond capacity %d", target, m.Capacity(target)))
	}
}

// pruneDeadHolders evicts destroyed attackers from a target's holder
// set so a stale holder cannot eat a capacity slot between sweeps.
func (m *TargetManager) pruneDeadHolders(target ecs.EntityID) {
	if m.alive == nil {
		return
	}
	hs := m.holders[target]
	kept := hs[:0]
	for _, a := range hs {
		if m.alive(a) {
			kept = append(kept, a)
		} else {
			delete(m.byAttacker, a)
		}
	}
	if len(kept) == 0 {
		delete(m.holders, target)
	} else {
		m.holders[target] = kept
	}
}

// Release drops every attacker's claim on the target.
func (m *TargetManager) Release(target ecs.EntityID) {
	for _, a := range m.holders[target] {
		if m.byAttacker[a] == target {
			delete(m.byAttacker, a)
		}
	}
	delete(m.holders, target)
}

// ReleaseByAttacker drops the attacker's claim, if any. The spawner must
// call this before destroying an agent that might hold a claim.
func (m *TargetManager) ReleaseByAttacker(attacker ecs.EntityID) {
	target, ok := m.byAttacker[attacker]
	if !ok {
		return
	}
	delete(m.byAttacker, attacker)
	hs := m.holders[target]
	for i, a := range hs {
		if a == attacker {
			m.holders[target] = append(hs[:i], hs[i+1:]...)
			break
		}
	}
	if len(m.holders[target]) == 0 {
		delete(m.holders, target)
	}
}

// IsReservedBy reports whether the attacker currently holds the target.
func (m *TargetManager) IsReservedBy(target, attacker ecs.EntityID) bool {
	return m.byAttacker[attacker] == target
}

// ReservationCount returns how many attackers hold the target, stale
// holders included (Sweep trims those).
func (m *TargetManager) ReservationCount(target ecs.EntityID) int {
	return len(m.holders[target])
}

// IsAtCapacity reports whether the target can take no more attackers.
func (m *TargetManager) IsAtCapacity(target ecs.EntityID) bool {
	return len(m.holders[target]) >= m.Capacity(target)
}

// HeldBy returns the target currently claimed by the attacker, if any.
func (m *TargetManager) HeldBy(attacker ecs.EntityID) (ecs.EntityID, bool) {
	t, ok := m.byAttacker[attacker]
	return t, ok
}

// Sweep drops destroyed targets from the index and prunes reservation
// records referencing dead handles on either side. Returns entries
// removed. Agents holding a swept reservation find out at their next
// validity check.
func (m *TargetManager) Sweep() int {
	removed := m.grid.Sweep()
	if m.alive == nil {
		return removed
	}
	for target := range m.holders {
		if !m.alive(target) {
			m.Release(target)
			delete(m.capacity, target)
			removed++
		}
	}
	for attacker := range m.byAttacker {
		if !m.alive(attacker) {
			m.ReleaseByAttacker(attacker)
			removed++
		}
	}
	return removed
}

// TargetCount returns the number of indexed targets, stale included.
func (m *TargetManager) TargetCount() int {
	return m.grid.Len()
}
