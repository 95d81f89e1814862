package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/huntgo/server/internal/core/system"
	"github.com/huntgo/server/internal/world"
)

// SweepSystem periodically purges stale handles from every layer's grid
// and reservation maps. Reads already filter stale entries, so the
// cadence only bounds memory growth. Phase 2 (PostUpdate).
type SweepSystem struct {
	world    *world.State
	log      *zap.Logger
	interval time.Duration
	elapsed  time.Duration
}

func NewSweepSystem(ws *world.State, log *zap.Logger, interval time.Duration) *SweepSystem {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &SweepSystem{world: ws, log: log, interval: interval}
}

func (s *SweepSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *SweepSystem) Update(dt time.Duration) {
	s.elapsed += dt
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0

	removed := 0
	s.world.EachLayer(func(l *world.Layer) {
		removed += l.Targets.Sweep()
		removed += l.Loot.Sweep()
	})
	if removed > 0 && s.log != nil {
		s.log.Debug("swept stale entries", zap.Int("removed", removed))
	}
}
