package system

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/huntgo/server/internal/core/event"
	coresys "github.com/huntgo/server/internal/core/system"
	"github.com/huntgo/server/internal/data"
	"github.com/huntgo/server/internal/world"
)

// DeathSystem reacts to Died events: it rolls the victim's drop table
// onto the ground, queues a respawn ticket when the template has a
// respawn delay, and queues the victim for end-of-tick destruction.
// Runs in PhaseUpdate; the victim's components are still readable
// because destruction only happens at cleanup. Phase 1 (Update).
type DeathSystem struct {
	world     *world.State
	drops     *data.DropTable
	creatures *data.CreatureTable
	respawn   *RespawnSystem
	rng       *rand.Rand
	log       *zap.Logger

	pending []event.Died
}

func NewDeathSystem(ws *world.State, bus *event.Bus, drops *data.DropTable, creatures *data.CreatureTable, respawn *RespawnSystem, rng *rand.Rand, log *zap.Logger) *DeathSystem {
	s := &DeathSystem{
		world:     ws,
		drops:     drops,
		creatures: creatures,
		respawn:   respawn,
		rng:       rng,
		log:       log,
	}
	event.Subscribe(bus, func(ev event.Died) {
		s.pending = append(s.pending, ev)
	})
	return s
}

func (s *DeathSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *DeathSystem) Update(_ time.Duration) {
	for _, ev := range s.pending {
		s.handleDeath(ev)
	}
	s.pending = s.pending[:0]
}

func (s *DeathSystem) handleDeath(ev event.Died) {
	if !s.world.Alive(ev.Agent) {
		return
	}
	ident, ok := s.world.Identities.Get(ev.Agent)
	if ok {
		s.rollDrops(ident.TemplateID, ev)
		s.queueRespawn(ident.TemplateID, ev)
		if s.log != nil {
			s.log.Debug("agent died",
				zap.Int32("template", ident.TemplateID),
				zap.Int16("layer", ev.Layer),
				zap.Int32("overkill", ev.Overkill))
		}
	}
	s.world.Destroy(ev.Agent)
}

func (s *DeathSystem) rollDrops(templateID int32, ev event.Died) {
	if s.drops == nil {
		return
	}
	for _, d := range s.drops.Get(templateID) {
		if s.rng.Float64() >= d.Chance {
			continue
		}
		count := d.Min
		if d.Max > d.Min {
			count += s.rng.Int31n(d.Max - d.Min + 1)
		}
		if count <= 0 {
			continue
		}
		s.world.SpawnLoot(d.ItemID, count, ev.Layer, ev.Pos)
	}
}

func (s *DeathSystem) queueRespawn(templateID int32, ev event.Died) {
	if s.respawn == nil || s.creatures == nil {
		return
	}
	tpl := s.creatures.Get(templateID)
	if tpl == nil || tpl.RespawnDelaySec <= 0 {
		return
	}
	// Mobs come back at their home point, not where they fell.
	pos := ev.Pos
	if m, ok := s.world.Mobs.Get(ev.Agent); ok {
		pos = m.Home
	} else if cb, ok := s.world.Combatants.Get(ev.Agent); ok {
		pos = cb.Anchor
	}
	s.respawn.AddTicket(tpl, ev.Layer, pos, time.Duration(tpl.RespawnDelaySec)*time.Second)
}
