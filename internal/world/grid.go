package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/huntgo/server/internal/core/ecs"
)

// Grid is a uniform cell index over one layer's entities. Cell size is
// chosen close to the typical scan radius so a query touches O(1) cells.
// Accessed only from the simulation goroutine, so no locks.
//
// The index is as-fresh-as-last-touched: a cell reflects the position an
// entity had at its last Register/UpdatePosition call. Stale (destroyed)
// handles are filtered at every read and removed for good by Sweep.
type Grid struct {
	cellSize float64
	cells    map[cellKey]map[ecs.EntityID]struct{}
	located  map[ecs.EntityID]cellKey
	alive    func(ecs.EntityID) bool
}

type cellKey struct {
	cx int32
	cy int32
}

func NewGrid(cellSize float64, alive func(ecs.EntityID) bool) *Grid {
	if cellSize <= 0 {
		panic("world: grid cell size must be positive")
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[ecs.EntityID]struct{}),
		located:  make(map[ecs.EntityID]cellKey),
		alive:    alive,
	}
}

func (g *Grid) cellOf(pos mgl64.Vec2) cellKey {
	return cellKey{
		cx: int32(math.Floor(pos.X() / g.cellSize)),
		cy: int32(math.Floor(pos.Y() / g.cellSize)),
	}
}

// Register places an entity into the cell matching its position.
// Re-registering moves the existing entry.
func (g *Grid) Register(id ecs.EntityID, pos mgl64.Vec2) {
	if id.IsZero() {
		return
	}
	k := g.cellOf(pos)
	if old, ok := g.located[id]; ok {
		if old == k {
			return
		}
		g.removeFromCell(id, old)
	}
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[ecs.EntityID]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
	g.located[id] = k
}

// Unregister removes an entity from the index. No-op if absent.
func (g *Grid) Unregister(id ecs.EntityID) {
	k, ok := g.located[id]
	if !ok {
		return
	}
	g.removeFromCell(id, k)
	delete(g.located, id)
}

// UpdatePosition recomputes the entity's cell; when the cell is
// unchanged this is a map lookup and nothing else.
func (g *Grid) UpdatePosition(id ecs.EntityID, pos mgl64.Vec2) {
	old, ok := g.located[id]
	if !ok {
		return
	}
	k := g.cellOf(pos)
	if k == old {
		return
	}
	g.removeFromCell(id, old)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[ecs.EntityID]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
	g.located[id] = k
}

// Contains reports whether the entity is currently indexed.
func (g *Grid) Contains(id ecs.EntityID) bool {
	_, ok := g.located[id]
	return ok
}

// QueryRadius returns all live entities in the square of cells covering
// the given radius. This over-approximates the circle: callers needing a
// true radius ranking must apply an exact distance filter afterward.
func (g *Grid) QueryRadius(center mgl64.Vec2, radius float64) []ecs.EntityID {
	return g.QueryRadiusInto(center, radius, nil)
}

// QueryRadiusInto is QueryRadius appending into a reusable buffer.
func (g *Grid) QueryRadiusInto(center mgl64.Vec2, radius float64, buf []ecs.EntityID) []ecs.EntityID {
	buf = buf[:0]
	if radius < 0 {
		return buf
	}
	c := g.cellOf(center)
	ring := int32(math.Ceil(radius / g.cellSize))
	for dx := -ring; dx <= ring; dx++ {
		for dy := -ring; dy <= ring; dy++ {
			k := cellKey{cx: c.cx + dx, cy: c.cy + dy}
			for id := range g.cells[k] {
				if g.alive != nil && !g.alive(id) {
					continue
				}
				buf = append(buf, id)
			}
		}
	}
	return buf
}

// Sweep drops destroyed handles from every cell. Meant to run on a
// multi-second cadence; reads already filter defensively, so sweeping is
// a cost cleanup, not a correctness requirement. Returns the number of
// entries removed.
func (g *Grid) Sweep() int {
	if g.alive == nil {
		return 0
	}
	removed := 0
	for id, k := range g.located {
		if g.alive(id) {
			continue
		}
		g.removeFromCell(id, k)
		delete(g.located, id)
		removed++
	}
	return removed
}

// Len returns the number of indexed entities, stale entries included.
func (g *Grid) Len() int {
	return len(g.located)
}

func (g *Grid) removeFromCell(id ecs.EntityID, k cellKey) {
	cell := g.cells[k]
	if cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
}
