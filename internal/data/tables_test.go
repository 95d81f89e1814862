package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYaml(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadCreatureTable(t *testing.T) {
	path := writeYaml(t, "creature_list.yaml", `
creatures:
  - template_id: 1001
    name: "Gray Wolf"
    category: mob
    behavior: aggressive
    hostile: [combatant, carrier]
    can_attack: true
    max_hp: 60
    damage: 8
    scan_range: 12.0
    attack_interval_ms: 1800
    move_speed: 3.5
    target_capacity: 3
    respawn_delay_s: 30
`)
	table, err := LoadCreatureTable(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Count())

	tpl := table.Get(1001)
	require.NotNil(t, tpl)
	assert.Equal(t, "Gray Wolf", tpl.Name)
	assert.Equal(t, "mob", tpl.Category)
	assert.Equal(t, []string{"combatant", "carrier"}, tpl.Hostile)
	assert.Equal(t, int32(60), tpl.MaxHP)
	assert.Equal(t, 1800, tpl.AttackIntervalMs)
	assert.Equal(t, 30, tpl.RespawnDelaySec)

	assert.Nil(t, table.Get(9999))
}

func TestLoadSpawnList(t *testing.T) {
	path := writeYaml(t, "spawn_list.yaml", `
spawns:
  - template_id: 1001
    layer: 1
    x: 40.0
    y: 40.0
    count: 6
    scatter: 12.0
`)
	spawns, err := LoadSpawnList(path)
	require.NoError(t, err)
	require.Len(t, spawns, 1)
	assert.Equal(t, int32(1001), spawns[0].TemplateID)
	assert.Equal(t, int16(1), spawns[0].Layer)
	assert.Equal(t, 6, spawns[0].Count)
}

func TestLoadDropTable(t *testing.T) {
	path := writeYaml(t, "drop_list.yaml", `
drops:
  - template_id: 1001
    entries:
      - item_id: 40001
        chance: 0.8
        min: 1
        max: 2
`)
	table, err := LoadDropTable(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Count())

	entries := table.Get(1001)
	require.Len(t, entries, 1)
	assert.Equal(t, int32(40001), entries[0].ItemID)
	assert.InDelta(t, 0.8, entries[0].Chance, 1e-9)

	assert.Nil(t, table.Get(42))
}

func TestLoadRejectsBadYaml(t *testing.T) {
	path := writeYaml(t, "bad.yaml", "creatures: {not a list")
	_, err := LoadCreatureTable(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadSpawnList(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
