package system

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/huntgo/server/internal/core/event"
	coresys "github.com/huntgo/server/internal/core/system"
	"github.com/huntgo/server/internal/persist"
	"github.com/huntgo/server/internal/world"
)

const killLogFlushInterval = 10 * time.Second

// KillLogSystem records every death into the kill log repository.
// Template IDs are resolved at dispatch time, while the victim's
// components are still readable. Entries are buffered and flushed in
// batches. Phase 3 (Persist). Register it only when a database is
// configured.
type KillLogSystem struct {
	world *world.State
	repo  *persist.KillLogRepo
	log   *zap.Logger
	runID uuid.UUID

	tick    int64
	elapsed time.Duration
	buf     []persist.KillEntry
}

func NewKillLogSystem(ws *world.State, bus *event.Bus, repo *persist.KillLogRepo, log *zap.Logger) *KillLogSystem {
	s := &KillLogSystem{
		world: ws,
		repo:  repo,
		log:   log,
		runID: uuid.New(),
	}
	event.Subscribe(bus, func(ev event.Died) {
		s.record(ev)
	})
	return s
}

func (s *KillLogSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *KillLogSystem) record(ev event.Died) {
	entry := persist.KillEntry{
		RunID:    s.runID,
		Tick:     s.tick,
		Layer:    ev.Layer,
		Overkill: ev.Overkill,
	}
	if ident, ok := s.world.Identities.Get(ev.Agent); ok {
		entry.VictimTpl = ident.TemplateID
	}
	if ident, ok := s.world.Identities.Get(ev.Killer); ok {
		entry.KillerTpl = ident.TemplateID
	}
	s.buf = append(s.buf, entry)
}

func (s *KillLogSystem) Update(dt time.Duration) {
	s.tick++
	s.elapsed += dt
	if s.elapsed < killLogFlushInterval {
		return
	}
	s.elapsed = 0
	s.Flush()
}

// Flush writes all buffered entries. Called on the flush cadence and
// once more at shutdown.
func (s *KillLogSystem) Flush() {
	if s.repo == nil || len(s.buf) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.WriteBatch(ctx, s.buf); err != nil {
		if s.log != nil {
			s.log.Error("kill log flush failed", zap.Error(err), zap.Int("entries", len(s.buf)))
		}
		return
	}
	if s.log != nil {
		s.log.Debug("kill log flushed", zap.Int("entries", len(s.buf)))
	}
	s.buf = s.buf[:0]
}
