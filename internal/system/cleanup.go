package system

import (
	"time"

	"github.com/huntgo/server/internal/core/ecs"
	coresys "github.com/huntgo/server/internal/core/system"
)

// CleanupSystem flushes the deferred destruction queue at the very end
// of each tick. Everything earlier in the tick may still dereference
// entities that died this tick. Phase 4 (Cleanup).
type CleanupSystem struct {
	ecs *ecs.World
}

func NewCleanupSystem(w *ecs.World) *CleanupSystem {
	return &CleanupSystem{ecs: w}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.ecs.FlushDestroyQueue()
}
