package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ``))
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, cfg.Sim.TickRate)
	assert.Equal(t, 16.0, cfg.Sim.CellSize)
	assert.Equal(t, 3, cfg.Sim.DefaultCapacity)
	assert.Equal(t, time.Second, cfg.Sim.RegenInterval)
	assert.Equal(t, "", cfg.Database.DSN)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotZero(t, cfg.Server.StartTime)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[server]
name = "testsrv"

[sim]
tick_rate = "50ms"
cell_size = 8.0
default_capacity = 5
attack_delay = "100ms"
regen_interval = "2s"

[logging]
level = "debug"
format = "json"
`))
	require.NoError(t, err)
	assert.Equal(t, "testsrv", cfg.Server.Name)
	assert.Equal(t, 50*time.Millisecond, cfg.Sim.TickRate)
	assert.Equal(t, 8.0, cfg.Sim.CellSize)
	assert.Equal(t, 5, cfg.Sim.DefaultCapacity)
	assert.Equal(t, 100*time.Millisecond, cfg.Sim.AttackDelay)
	assert.Equal(t, 2*time.Second, cfg.Sim.RegenInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeConfig(t, `
[sim]
cell_size = -1.0
`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `
[sim]
default_capacity = 0
`))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
