package system

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	coresys "github.com/huntgo/server/internal/core/system"
	"github.com/huntgo/server/internal/data"
	"github.com/huntgo/server/internal/world"
)

type respawnTicket struct {
	tpl       *data.CreatureTemplate
	layer     int16
	pos       mgl64.Vec2
	remaining time.Duration
}

// RespawnSystem counts down respawn tickets queued by the death system
// and re-spawns the creature at its ticket position when a ticket
// expires. Phase 2 (PostUpdate).
type RespawnSystem struct {
	world   *world.State
	log     *zap.Logger
	tickets []respawnTicket
}

func NewRespawnSystem(ws *world.State, log *zap.Logger) *RespawnSystem {
	return &RespawnSystem{world: ws, log: log}
}

func (s *RespawnSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

// AddTicket schedules a creature to re-spawn after the given delay.
func (s *RespawnSystem) AddTicket(tpl *data.CreatureTemplate, layer int16, pos mgl64.Vec2, delay time.Duration) {
	s.tickets = append(s.tickets, respawnTicket{
		tpl:       tpl,
		layer:     layer,
		pos:       pos,
		remaining: delay,
	})
}

// PendingCount returns the number of outstanding tickets.
func (s *RespawnSystem) PendingCount() int {
	return len(s.tickets)
}

func (s *RespawnSystem) Update(dt time.Duration) {
	kept := s.tickets[:0]
	for _, tk := range s.tickets {
		tk.remaining -= dt
		if tk.remaining > 0 {
			kept = append(kept, tk)
			continue
		}
		s.world.SpawnAgent(tk.tpl, tk.layer, tk.pos)
		if s.log != nil {
			s.log.Debug("respawned creature",
				zap.Int32("template", tk.tpl.TemplateID),
				zap.Int16("layer", tk.layer))
		}
	}
	s.tickets = kept
}
