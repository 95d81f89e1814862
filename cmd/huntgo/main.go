package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/huntgo/server/internal/config"
	"github.com/huntgo/server/internal/core/ecs"
	"github.com/huntgo/server/internal/core/event"
	coresys "github.com/huntgo/server/internal/core/system"
	"github.com/huntgo/server/internal/data"
	"github.com/huntgo/server/internal/persist"
	"github.com/huntgo/server/internal/scripting"
	"github.com/huntgo/server/internal/system"
	"github.com/huntgo/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             huntgo  v0.1.0                \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       hunt simulation core server         \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dots := 38 - len(label) - len(numStr)
	if dots < 1 {
		dots = 1
	}
	fmt.Printf("  %s %s \033[32m%s\033[0m\n", label, strings.Repeat(".", dots), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▸\033[0m %s\n", msg)
}

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("HUNTGO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// 3. Optional database for the kill log
	var killRepo *persist.KillLogRepo
	if cfg.Database.DSN != "" {
		printSection("database")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		if err := db.Migrate(ctx); err != nil {
			cancel()
			return fmt.Errorf("migrations: %w", err)
		}
		cancel()
		printOK("migrations applied")
		fmt.Println()

		killRepo = persist.NewKillLogRepo(db)
	}

	// 4. Load data tables
	printSection("data tables")

	creatureTable, err := data.LoadCreatureTable(filepath.Join(cfg.Sim.DataDir, "creature_list.yaml"))
	if err != nil {
		return fmt.Errorf("load creature table: %w", err)
	}
	printStat("creature templates", creatureTable.Count())

	spawnList, err := data.LoadSpawnList(filepath.Join(cfg.Sim.DataDir, "spawn_list.yaml"))
	if err != nil {
		return fmt.Errorf("load spawn list: %w", err)
	}

	dropTable, err := data.LoadDropTable(filepath.Join(cfg.Sim.DataDir, "drop_list.yaml"))
	if err != nil {
		return fmt.Errorf("load drop table: %w", err)
	}
	printStat("drop tables", dropTable.Count())

	// 5. Lua scripting engine
	lua, err := scripting.NewEngine(cfg.Sim.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer lua.Close()

	// 6. World state and initial spawns
	ecsWorld := ecs.NewWorld()
	worldState := world.NewState(ecsWorld, world.Options{
		CellSize:        cfg.Sim.CellSize,
		DefaultCapacity: cfg.Sim.DefaultCapacity,
	})

	spawned := spawnCreatures(worldState, creatureTable, spawnList, rng, log)
	printStat("creatures spawned", spawned)
	fmt.Println()

	// 7. Systems
	bus := event.NewBus()
	driver := system.NewCombatDriver(worldState, bus, lua, cfg.Sim.AttackDelay)
	respawnSys := system.NewRespawnSystem(worldState, log)

	runner := coresys.NewRunner()
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewMobSystem(worldState, driver, lua))
	runner.Register(system.NewCombatantSystem(worldState, driver))
	runner.Register(system.NewCarrierSystem(worldState, bus))
	runner.Register(system.NewDeathSystem(worldState, bus, dropTable, creatureTable, respawnSys, rng, log))
	runner.Register(system.NewDeferredDamageSystem(worldState, bus, driver))
	runner.Register(system.NewRegenSystem(worldState, bus, lua, cfg.Sim.RegenInterval))
	runner.Register(respawnSys)
	runner.Register(system.NewSweepSystem(worldState, log, cfg.Sim.SweepInterval))
	runner.Register(system.NewCleanupSystem(ecsWorld))

	var killSys *system.KillLogSystem
	if killRepo != nil {
		killSys = system.NewKillLogSystem(worldState, bus, killRepo, log)
		runner.Register(killSys)
	}

	// 8. Simulation loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Sim.TickRate)
	defer ticker.Stop()

	printSection("simulation ready")
	printReady(fmt.Sprintf("loop started (tick: %s)", cfg.Sim.TickRate))
	fmt.Println()

	start := time.Now()
	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Sim.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if killSys != nil {
				killSys.Flush()
			}
			log.Info("simulation stopped",
				zap.Duration("uptime", time.Since(start).Round(time.Second)),
				zap.Int("entities", ecsWorld.Pool().LiveCount()))
			return nil
		}
	}
}

// spawnCreatures places the initial population from the spawn list,
// scattering each group around its anchor point.
func spawnCreatures(ws *world.State, creatures *data.CreatureTable, spawns []data.SpawnEntry, rng *rand.Rand, log *zap.Logger) int {
	total := 0
	for _, sp := range spawns {
		tpl := creatures.Get(sp.TemplateID)
		if tpl == nil {
			log.Warn("spawn entry references unknown template", zap.Int32("template", sp.TemplateID))
			continue
		}
		count := sp.Count
		if count < 1 {
			count = 1
		}
		for i := 0; i < count; i++ {
			pos := mgl64.Vec2{sp.X, sp.Y}
			if sp.Scatter > 0 {
				pos = mgl64.Vec2{
					sp.X + (rng.Float64()*2-1)*sp.Scatter,
					sp.Y + (rng.Float64()*2-1)*sp.Scatter,
				}
			}
			ws.SpawnAgent(tpl, sp.Layer, pos)
			total++
		}
	}
	return total
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
