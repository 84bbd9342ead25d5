package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalid marks a configuration value the simulation refuses to start with.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Terrain    TerrainConfig    `toml:"terrain"`
	Physics    PhysicsConfig    `toml:"physics"`
	Combat     CombatConfig     `toml:"combat"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	Name            string        `toml:"name"`
	TickRate        time.Duration `toml:"tick_rate"`
	Seed            uint64        `toml:"seed"`
	Level           string        `toml:"level"`            // YAML level file
	MaxTicks        int           `toml:"max_ticks"`        // 0 = run until signalled
	DebugAssertions bool          `toml:"debug_assertions"` // panic on invariant violations after commit
	StartTime       int64         // unix seconds, set by Load, not from config
}

// Uptime is the wall time since Load, truncated to seconds. Zero when the
// config was never loaded from disk.
func (c SimulationConfig) Uptime(now time.Time) time.Duration {
	if c.StartTime == 0 {
		return 0
	}
	return now.Truncate(time.Second).Sub(time.Unix(c.StartTime, 0))
}

// TerrainConfig is used when the level does not name a mask file.
type TerrainConfig struct {
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	Base     float64 `toml:"base"`     // mean surface row of generated hills
	Variance float64 `toml:"variance"` // max deviation from base, in rows
	Octaves  int     `toml:"octaves"`
}

type PhysicsConfig struct {
	Gravity          float64 `toml:"gravity"`           // samples/s², negative is down
	TerminalVelocity float64 `toml:"terminal_velocity"` // max falling speed, samples/s
	StepHeight       float64 `toml:"step_height"`       // tallest ledge a walking unit climbs
	GroundTolerance  float64 `toml:"ground_tolerance"`  // gap under the feet still counted as standing
	FallLimit        float64 `toml:"fall_limit"`        // units below -fall_limit are destroyed
}

type CombatConfig struct {
	TargetingWorkers int     `toml:"targeting_workers"`
	MuzzleOffset     float64 `toml:"muzzle_offset"` // projectile spawn height above the turret box
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Simulation.StartTime = time.Now().Unix()
	return cfg, nil
}

// Parse overlays TOML data onto the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values that would leave the simulation undefined.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}
	check(c.Simulation.TickRate > 0, "simulation.tick_rate must be positive, got %s", c.Simulation.TickRate)
	check(c.Simulation.MaxTicks >= 0, "simulation.max_ticks must not be negative, got %d", c.Simulation.MaxTicks)
	check(c.Terrain.Width > 0 && c.Terrain.Height > 0, "terrain size must be positive, got %dx%d", c.Terrain.Width, c.Terrain.Height)
	check(c.Physics.Gravity <= 0, "physics.gravity must point down (<= 0), got %g", c.Physics.Gravity)
	check(c.Physics.TerminalVelocity > 0, "physics.terminal_velocity must be positive, got %g", c.Physics.TerminalVelocity)
	check(c.Physics.StepHeight >= 0, "physics.step_height must not be negative, got %g", c.Physics.StepHeight)
	check(c.Physics.GroundTolerance > 0, "physics.ground_tolerance must be positive, got %g", c.Physics.GroundTolerance)
	check(c.Physics.FallLimit >= 0, "physics.fall_limit must not be negative, got %g", c.Physics.FallLimit)
	check(c.Combat.TargetingWorkers > 0, "combat.targeting_workers must be positive, got %d", c.Combat.TargetingWorkers)
	check(c.Combat.MuzzleOffset >= 0, "combat.muzzle_offset must not be negative, got %g", c.Combat.MuzzleOffset)
	return errors.Join(errs...)
}

func Defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Name:     "craterline",
			TickRate: 16 * time.Millisecond,
			Seed:     1,
			Level:    "data/yaml/level_ridge.yaml",
		},
		Terrain: TerrainConfig{
			Width:    320,
			Height:   180,
			Base:     70,
			Variance: 18,
			Octaves:  3,
		},
		Physics: PhysicsConfig{
			Gravity:          -60,
			TerminalVelocity: 90,
			StepHeight:       1,
			GroundTolerance:  0.5,
			FallLimit:        32,
		},
		Combat: CombatConfig{
			TargetingWorkers: 4,
			MuzzleOffset:     1,
		},
		Scripting: ScriptingConfig{
			Enabled: true,
			Dir:     "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
