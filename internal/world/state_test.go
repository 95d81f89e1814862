package world

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huntgo/server/internal/core/ecs"
	"github.com/huntgo/server/internal/data"
)

func testTemplate() *data.CreatureTemplate {
	return &data.CreatureTemplate{
		TemplateID:       1001,
		Name:             "Wolf",
		Category:         "mob",
		Behavior:         "aggressive",
		Hostile:          []string{"combatant", "wildlife"},
		CanAttack:        true,
		MaxHP:            60,
		Damage:           8,
		ScanRange:        12,
		AttackRange:      1.5,
		ChaseBreakRange:  20,
		AttackIntervalMs: 1800,
		MoveSpeed:        3.5,
		TargetCapacity:   3,
	}
}

func newTestState() *State {
	return NewState(ecs.NewWorld(), Options{CellSize: 16, DefaultCapacity: 3})
}

func TestSpawnAgentWiresComponents(t *testing.T) {
	s := newTestState()
	id := s.SpawnAgent(testTemplate(), 1, mgl64.Vec2{5, 5})
	require.False(t, id.IsZero())
	assert.True(t, s.Alive(id))

	ident, ok := s.Identities.Get(id)
	require.True(t, ok)
	assert.Equal(t, CategoryMob, ident.Category)

	c, ok := s.Combats.Get(id)
	require.True(t, ok)
	assert.Equal(t, BehaviorAggressive, c.Profile.Behavior)
	assert.True(t, c.Profile.Hostile.Includes(CategoryCombatant))
	assert.False(t, c.Profile.Hostile.Includes(CategoryMob))
	assert.Equal(t, 1800*time.Millisecond, c.Profile.AttackInterval)

	m, ok := s.Mobs.Get(id)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec2{5, 5}, m.Home)

	assert.True(t, s.Layer(1).Targets.Contains(id))
}

func TestMoveAgentUpdatesIndex(t *testing.T) {
	s := newTestState()
	id := s.SpawnAgent(testTemplate(), 1, mgl64.Vec2{0, 0})
	s.MoveAgent(id, mgl64.Vec2{300, 300})

	pos, ok := s.Position(id)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec2{300, 300}, pos)

	// reservations scan through the layer grid, so the index must track
	other := s.SpawnAgent(testTemplate(), 1, mgl64.Vec2{301, 300})
	tgt, ok := s.Layer(1).Targets.RequestTarget(other, mgl64.Vec2{301, 300}, 5, nil)
	require.True(t, ok)
	assert.Equal(t, id, tgt)
}

func TestDestroyReleasesEverything(t *testing.T) {
	s := newTestState()
	attacker := s.SpawnAgent(testTemplate(), 1, mgl64.Vec2{0, 0})
	victim := s.SpawnAgent(testTemplate(), 1, mgl64.Vec2{2, 0})
	item := s.SpawnLoot(40001, 1, 1, mgl64.Vec2{1, 0})

	_, ok := s.Layer(1).Targets.RequestTarget(attacker, mgl64.Vec2{0, 0}, 10,
		func(id ecs.EntityID) bool { return id == victim })
	require.True(t, ok)

	s.Destroy(victim)
	_, held := s.Layer(1).Targets.HeldBy(attacker)
	assert.False(t, held, "claims on a destroyed target are gone immediately")

	s.Destroy(item)
	assert.False(t, s.Layer(1).Loot.IsReserved(item))

	// handles die at the cleanup flush, not before
	assert.True(t, s.Alive(victim))
	s.ECS().FlushDestroyQueue()
	assert.False(t, s.Alive(victim))
}

func TestLayersAreIsolated(t *testing.T) {
	s := newTestState()
	a := s.SpawnAgent(testTemplate(), 1, mgl64.Vec2{0, 0})
	b := s.SpawnAgent(testTemplate(), 2, mgl64.Vec2{1, 0})

	// same spot, different layer: invisible to each other's manager
	_, ok := s.Layer(1).Targets.RequestTarget(b, mgl64.Vec2{1, 0}, 10,
		func(id ecs.EntityID) bool { return id == a })
	assert.True(t, ok, "a is indexed on layer 1")
	assert.False(t, s.Layer(2).Targets.Contains(a))
	assert.True(t, s.Layer(2).Targets.Contains(b))
}

func TestHostileTo(t *testing.T) {
	s := newTestState()
	wolf := s.SpawnAgent(testTemplate(), 1, mgl64.Vec2{0, 0})
	other := s.SpawnAgent(testTemplate(), 1, mgl64.Vec2{1, 0})

	c, _ := s.Combats.Get(wolf)
	assert.False(t, s.HostileTo(wolf, c.Profile.Hostile, other), "mobs are not hostile to mobs")
	assert.False(t, s.HostileTo(wolf, c.Profile.Hostile, wolf), "never hostile to self")

	deerTpl := testTemplate()
	deerTpl.Category = "wildlife"
	deer := s.SpawnAgent(deerTpl, 1, mgl64.Vec2{2, 0})
	assert.True(t, s.HostileTo(wolf, c.Profile.Hostile, deer))

	// dead candidates are never valid targets
	h, _ := s.Healths.Get(deer)
	h.Kill()
	assert.False(t, s.HostileTo(wolf, c.Profile.Hostile, deer))
}

func TestEffectiveScanRange(t *testing.T) {
	c := &Combat{Profile: CombatProfile{Behavior: BehaviorTerritorial, ScanRange: 5}}
	assert.Equal(t, 5.0, c.EffectiveScanRange(), "territorial without a radius falls back to scan range")

	c.Profile.TerritorialRange = 9
	assert.Equal(t, 9.0, c.EffectiveScanRange())

	c.Profile.Behavior = BehaviorAggressive
	assert.Equal(t, 5.0, c.EffectiveScanRange(), "only territorial agents use the territorial radius")
}
