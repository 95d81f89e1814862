package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingSystem struct {
	phase Phase
	name  string
	log   *[]string
}

func (s *recordingSystem) Phase() Phase { return s.phase }
func (s *recordingSystem) Update(time.Duration) {
	*s.log = append(*s.log, s.name)
}

func TestRunnerExecutesInPhaseOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recordingSystem{phase: PhaseCleanup, name: "cleanup", log: &log})
	r.Register(&recordingSystem{phase: PhasePreUpdate, name: "events", log: &log})
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "ai", log: &log})
	r.Register(&recordingSystem{phase: PhasePostUpdate, name: "damage", log: &log})

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"events", "ai", "damage", "cleanup"}, log)
}

func TestRunnerStableWithinPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "first", log: &log})
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "second", log: &log})

	r.Tick(time.Millisecond)
	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"first", "second", "first", "second"}, log)
}

func TestRunnerLateRegistrationResorts(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(&recordingSystem{phase: PhaseUpdate, name: "ai", log: &log})
	r.Tick(time.Millisecond)

	r.Register(&recordingSystem{phase: PhasePreUpdate, name: "events", log: &log})
	log = log[:0]
	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"events", "ai"}, log)
}
