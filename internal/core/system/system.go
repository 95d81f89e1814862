package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhasePreUpdate  Phase = iota // 0: swap + dispatch last tick's events
	PhaseUpdate                  // 1: agent AI, combat, reservations
	PhasePostUpdate              // 2: deferred damage, loot, sweeps
	PhasePersist                 // 3: kill-log batch flush
	PhaseCleanup                 // 4: destroy queued entities
)

// System is the interface every simulation system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
