package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Sim      SimConfig      `toml:"sim"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	StartTime int64  // set at boot, not from config
}

type SimConfig struct {
	TickRate        time.Duration `toml:"tick_rate"`
	CellSize        float64       `toml:"cell_size"`        // grid cell size; keep near typical scan range
	SweepInterval   time.Duration `toml:"sweep_interval"`   // stale-entry cleanup cadence
	DefaultCapacity int           `toml:"default_capacity"` // attackers per target fallback
	AttackDelay     time.Duration `toml:"attack_delay"`     // wind-up between swing and damage
	RegenInterval   time.Duration `toml:"regen_interval"`   // HP regeneration pulse cadence
	ScriptsDir      string        `toml:"scripts_dir"`
	DataDir         string        `toml:"data_dir"`
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // empty = kill log disabled
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("sim.tick_rate must be positive")
	}
	if c.Sim.CellSize <= 0 {
		return fmt.Errorf("sim.cell_size must be positive")
	}
	if c.Sim.DefaultCapacity < 1 {
		return fmt.Errorf("sim.default_capacity must be at least 1")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name: "huntgo",
		},
		Sim: SimConfig{
			TickRate:        200 * time.Millisecond,
			CellSize:        16,
			SweepInterval:   5 * time.Second,
			DefaultCapacity: 3,
			AttackDelay:     300 * time.Millisecond,
			RegenInterval:   time.Second,
			ScriptsDir:      "scripts",
			DataDir:         "data/yaml",
		},
		Database: DatabaseConfig{
			DSN:             "",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
