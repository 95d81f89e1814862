package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/huntgo/server/internal/core/ecs"
	"github.com/huntgo/server/internal/world"
)

// moveToward steps an agent toward dest at speed for one tick, stopping
// exactly on the destination rather than oscillating past it. Returns
// true on arrival.
func moveToward(ws *world.State, id ecs.EntityID, t *world.Transform, dest mgl64.Vec2, speed float64, dt time.Duration) bool {
	step := speed * dt.Seconds()
	if step <= 0 {
		return false
	}
	delta := dest.Sub(t.Pos)
	dist := delta.Len()
	if dist <= step {
		ws.MoveAgent(id, dest)
		return true
	}
	ws.MoveAgent(id, t.Pos.Add(delta.Mul(step/dist)))
	return false
}
