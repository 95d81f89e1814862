package world

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCyclicTimerAccumulates(t *testing.T) {
	tm := NewCyclicTimer(time.Second)
	tm.Tick(400 * time.Millisecond)
	assert.False(t, tm.TryConsumeCycle())
	tm.Tick(400 * time.Millisecond)
	assert.False(t, tm.TryConsumeCycle())
	tm.Tick(400 * time.Millisecond)
	assert.True(t, tm.TryConsumeCycle())
	// consuming subtracts, the 200ms overflow carries over
	assert.Equal(t, 200*time.Millisecond, tm.Accumulated())
}

func TestCyclicTimerOverflowCarries(t *testing.T) {
	tm := NewCyclicTimer(time.Second)
	tm.Tick(2500 * time.Millisecond)
	assert.True(t, tm.TryConsumeCycle())
	assert.True(t, tm.TryConsumeCycle())
	assert.False(t, tm.TryConsumeCycle())
	assert.Equal(t, 500*time.Millisecond, tm.Accumulated())
}

func TestCyclicTimerSetIntervalKeepsAccumulated(t *testing.T) {
	tm := NewCyclicTimer(time.Second)
	tm.Tick(800 * time.Millisecond)
	assert.False(t, tm.TryConsumeCycle())

	// shortening the interval mid-cycle brings the trigger closer
	tm.SetInterval(500 * time.Millisecond)
	tm.Tick(100 * time.Millisecond)
	assert.True(t, tm.TryConsumeCycle())
	assert.Equal(t, 400*time.Millisecond, tm.Accumulated())
}

func TestCyclicTimerConsumeCycles(t *testing.T) {
	tm := NewCyclicTimer(time.Second)
	tm.Tick(3400 * time.Millisecond)
	assert.Equal(t, 3, tm.ConsumeCycles())
	assert.Equal(t, 400*time.Millisecond, tm.Accumulated())
	assert.Equal(t, 0, tm.ConsumeCycles())
}

func TestCyclicTimerConsumeCyclesCapped(t *testing.T) {
	tm := NewCyclicTimer(time.Second)
	tm.Tick(100 * time.Second)
	assert.Equal(t, maxCyclesPerConsume, tm.ConsumeCycles())
	// excess beyond the cap is discarded, only the remainder survives
	assert.Less(t, tm.Accumulated(), time.Second)
}

func TestCyclicTimerZeroInterval(t *testing.T) {
	tm := NewCyclicTimer(0)
	tm.Tick(time.Hour)
	assert.False(t, tm.TryConsumeCycle())
	assert.Equal(t, 0, tm.ConsumeCycles())
}

func TestCyclicTimerIgnoresNonPositiveTicks(t *testing.T) {
	tm := NewCyclicTimer(time.Second)
	tm.Tick(-time.Minute)
	tm.Tick(0)
	assert.Equal(t, time.Duration(0), tm.Accumulated())
}

func TestCyclicTimerReset(t *testing.T) {
	tm := NewCyclicTimer(time.Second)
	tm.Tick(900 * time.Millisecond)
	tm.Reset()
	tm.Tick(900 * time.Millisecond)
	assert.False(t, tm.TryConsumeCycle())
}

func TestCyclicTimerAccumulatedStaysBelowInterval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		interval := time.Duration(rapid.Int64Range(1, int64(10*time.Second)).Draw(t, "interval"))
		tm := NewCyclicTimer(interval)
		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			tm.Tick(time.Duration(rapid.Int64Range(0, int64(3*time.Second)).Draw(t, "dt")))
			tm.ConsumeCycles()
			if tm.Accumulated() >= interval {
				t.Fatalf("accumulated %v not below interval %v after drain", tm.Accumulated(), interval)
			}
		}
	})
}
