package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/huntgo/server/internal/core/ecs"
)

func alwaysAlive(ecs.EntityID) bool { return true }

func TestGridRegisterAndQuery(t *testing.T) {
	g := NewGrid(16, alwaysAlive)
	g.Register(1, mgl64.Vec2{5, 5})
	g.Register(2, mgl64.Vec2{100, 100})

	got := g.QueryRadius(mgl64.Vec2{0, 0}, 10)
	assert.Contains(t, got, ecs.EntityID(1))
	assert.NotContains(t, got, ecs.EntityID(2))
}

func TestGridPanicsOnBadCellSize(t *testing.T) {
	assert.Panics(t, func() { NewGrid(0, nil) })
	assert.Panics(t, func() { NewGrid(-1, nil) })
}

func TestGridNegativeCoordinates(t *testing.T) {
	g := NewGrid(16, alwaysAlive)
	g.Register(1, mgl64.Vec2{-5, -5})
	got := g.QueryRadius(mgl64.Vec2{-1, -1}, 10)
	assert.Contains(t, got, ecs.EntityID(1))
}

func TestGridUpdatePosition(t *testing.T) {
	g := NewGrid(16, alwaysAlive)
	g.Register(1, mgl64.Vec2{0, 0})
	g.UpdatePosition(1, mgl64.Vec2{200, 200})

	assert.Empty(t, g.QueryRadius(mgl64.Vec2{0, 0}, 5))
	assert.Contains(t, g.QueryRadius(mgl64.Vec2{200, 200}, 5), ecs.EntityID(1))
}

func TestGridUpdateUnregisteredIsNoop(t *testing.T) {
	g := NewGrid(16, alwaysAlive)
	g.UpdatePosition(1, mgl64.Vec2{5, 5})
	assert.False(t, g.Contains(1))
	assert.Empty(t, g.QueryRadius(mgl64.Vec2{5, 5}, 10))
}

func TestGridUnregister(t *testing.T) {
	g := NewGrid(16, alwaysAlive)
	g.Register(1, mgl64.Vec2{5, 5})
	g.Unregister(1)
	g.Unregister(1) // repeat is a no-op
	assert.False(t, g.Contains(1))
	assert.Equal(t, 0, g.Len())
}

func TestGridQueryFiltersDead(t *testing.T) {
	dead := map[ecs.EntityID]bool{}
	g := NewGrid(16, func(id ecs.EntityID) bool { return !dead[id] })
	g.Register(1, mgl64.Vec2{5, 5})
	g.Register(2, mgl64.Vec2{6, 6})

	dead[1] = true
	got := g.QueryRadius(mgl64.Vec2{5, 5}, 10)
	assert.NotContains(t, got, ecs.EntityID(1))
	assert.Contains(t, got, ecs.EntityID(2))

	// still indexed until swept
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, 1, g.Sweep())
	assert.Equal(t, 1, g.Len())
}

func TestGridZeroRadiusQueriesOwnCell(t *testing.T) {
	g := NewGrid(16, alwaysAlive)
	g.Register(1, mgl64.Vec2{5, 5})
	assert.Contains(t, g.QueryRadius(mgl64.Vec2{5, 5}, 0), ecs.EntityID(1))
	assert.Empty(t, g.QueryRadius(mgl64.Vec2{5, 5}, -1))
}

// Query must never miss an entity actually inside the radius; cell
// over-approximation only ever returns extras.
func TestGridQueryNeverMisses(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cellSize := rapid.Float64Range(0.5, 64).Draw(t, "cellSize")
		g := NewGrid(cellSize, alwaysAlive)

		n := rapid.IntRange(1, 40).Draw(t, "n")
		pos := make(map[ecs.EntityID]mgl64.Vec2, n)
		for i := 1; i <= n; i++ {
			id := ecs.EntityID(i)
			p := mgl64.Vec2{
				rapid.Float64Range(-500, 500).Draw(t, "x"),
				rapid.Float64Range(-500, 500).Draw(t, "y"),
			}
			pos[id] = p
			g.Register(id, p)
		}

		center := mgl64.Vec2{
			rapid.Float64Range(-500, 500).Draw(t, "cx"),
			rapid.Float64Range(-500, 500).Draw(t, "cy"),
		}
		radius := rapid.Float64Range(0, 200).Draw(t, "radius")

		got := map[ecs.EntityID]bool{}
		for _, id := range g.QueryRadius(center, radius) {
			got[id] = true
		}
		for id, p := range pos {
			if DistSq(center, p) <= radius*radius && !got[id] {
				t.Fatalf("entity %d at %v inside radius %v of %v but not returned", id, p, radius, center)
			}
		}
	})
}
