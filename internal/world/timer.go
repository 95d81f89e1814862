package world

import "time"

// maxCyclesPerConsume caps ConsumeCycles so a pathological time step
// cannot trigger an unbounded attack burst.
const maxCyclesPerConsume = 8

// CyclicTimer is an accumulate-and-consume interval timer. Consuming a
// cycle subtracts exactly one interval instead of resetting, so overflow
// beyond the interval carries into the next cycle. Changing the interval
// mid-cycle keeps the accumulated time: shortening the interval brings
// the next trigger closer immediately, which is how attack-speed buffs
// are expected to feel.
type CyclicTimer struct {
	interval    time.Duration
	accumulated time.Duration
}

func NewCyclicTimer(interval time.Duration) CyclicTimer {
	return CyclicTimer{interval: interval}
}

func (t *CyclicTimer) Tick(dt time.Duration) {
	if dt <= 0 {
		return
	}
	t.accumulated += dt
}

// TryConsumeCycle consumes one full interval if available. With one call
// per tick this yields at most one trigger per tick at normal tick rates.
func (t *CyclicTimer) TryConsumeCycle() bool {
	if t.interval <= 0 {
		return false
	}
	if t.accumulated < t.interval {
		return false
	}
	t.accumulated -= t.interval
	return true
}

// ConsumeCycles consumes every full interval accumulated, keeping the
// remainder, for the rare large time step needing multiple triggers.
// Capped at maxCyclesPerConsume; the excess is discarded along with the
// cap so a stalled process does not replay minutes of attacks.
func (t *CyclicTimer) ConsumeCycles() int {
	if t.interval <= 0 || t.accumulated < t.interval {
		return 0
	}
	n := int(t.accumulated / t.interval)
	if n > maxCyclesPerConsume {
		n = maxCyclesPerConsume
		t.accumulated = t.accumulated % t.interval
	} else {
		t.accumulated -= time.Duration(n) * t.interval
	}
	return n
}

// SetInterval changes the interval without touching accumulated time.
func (t *CyclicTimer) SetInterval(interval time.Duration) {
	t.interval = interval
}

func (t *CyclicTimer) Interval() time.Duration    { return t.interval }
func (t *CyclicTimer) Accumulated() time.Duration { return t.accumulated }

// Reset clears accumulated time; used when an agent disengages so the
// next engagement starts a fresh cycle.
func (t *CyclicTimer) Reset() {
	t.accumulated = 0
}
