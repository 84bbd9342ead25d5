package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/craterline/sim/internal/config"
	"github.com/craterline/sim/internal/core/event"
	"github.com/craterline/sim/internal/data"
	"github.com/craterline/sim/internal/scripting"
	"github.com/craterline/sim/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            craterline  v0.1.0             \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      destructible terrain simulation      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mrun:\033[0m %s\n\n", name)
}

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-len(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main loop ──────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/sim.toml"
	if p := os.Getenv("CRATERLINE_CONFIG"); p != "" {
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

	printBanner(cfg.Simulation.Name)

	// 3. Level data
	printSection("level")
	lvl, err := data.LoadLevel(cfg.Simulation.Level)
	if err != nil {
		return fmt.Errorf("level: %w", err)
	}
	printOK(fmt.Sprintf("loaded %s", lvl.Name))
	printStat("weapons", len(lvl.Weapons))
	printStat("unit templates", len(lvl.Units))
	printStat("turrets", len(lvl.Turrets))
	printStat("structures", len(lvl.Structures))
	printStat("placements", len(lvl.Placements))
	printStat("spawners", len(lvl.Spawners))
	fmt.Println()

	// 4. Formula scripts
	var scripts *scripting.Engine
	if cfg.Scripting.Enabled {
		scripts, err = scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer scripts.Close()
		printOK(fmt.Sprintf("lua scripts from %s", cfg.Scripting.Dir))
	}

	// 5. Build the simulation
	s, err := sim.New(sim.Options{Config: cfg, Level: lvl, Scripts: scripts, Log: log})
	if err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	s.Subscribe(&logObserver{log: log})
	snap := s.Snapshot()
	printStat("entities", len(snap.Entities))
	printStat("solid samples", snap.SolidCount)
	fmt.Println()

	// 6. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(s.TickRate())
	defer ticker.Stop()

	log.Info("simulation running",
		zap.String("run", s.RunID().String()),
		zap.Duration("tick", s.TickRate()),
		zap.Int("max_ticks", cfg.Simulation.MaxTicks),
		zap.Time("started", time.Unix(cfg.Simulation.StartTime, 0)),
	)
	for {
		select {
		case <-ticker.C:
			s.Step()
			if cfg.Simulation.MaxTicks > 0 && s.Tick() >= uint64(cfg.Simulation.MaxTicks) {
				log.Info("tick limit reached",
					zap.Uint64("tick", s.Tick()),
					zap.Duration("uptime", cfg.Simulation.Uptime(time.Now())),
				)
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal",
				zap.String("signal", sig.String()),
				zap.Uint64("tick", s.Tick()),
				zap.Duration("uptime", cfg.Simulation.Uptime(time.Now())),
			)
			return nil
		}
	}
}

// logObserver writes every notification to the log. It stands in for the
// audio and scoring collaborators when running headless.
type logObserver struct {
	log *zap.Logger
}

func (o *logObserver) TerrainDestroyed(ev event.TerrainDestroyed) {
	o.log.Info("terrain destroyed",
		zap.Uint64("tick", ev.Tick),
		zap.Float64("x", ev.X),
		zap.Float64("y", ev.Y),
		zap.Float64("radius", ev.Radius),
		zap.Int("removed", ev.Removed),
	)
}

func (o *logObserver) ProjectileFired(ev event.ProjectileFired) {
	o.log.Debug("projectile fired",
		zap.Uint64("tick", ev.Tick),
		zap.Uint64("turret", uint64(ev.Turret)),
		zap.Uint64("target", uint64(ev.Target)),
	)
}

func (o *logObserver) UnitDamaged(ev event.UnitDamaged) {
	o.log.Info("unit damaged",
		zap.Uint64("tick", ev.Tick),
		zap.Uint64("entity", uint64(ev.Entity)),
		zap.Float64("amount", ev.Amount),
		zap.Float64("remaining", ev.Remaining),
	)
}

func (o *logObserver) UnitKilled(ev event.UnitKilled) {
	o.log.Info("unit killed", zap.Uint64("tick", ev.Tick), zap.Uint64("entity", uint64(ev.Entity)))
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
