// Package sim owns one running battle: the state, the fixed system order
// and the hand-offs to input, audio and rendering collaborators.
package sim

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/craterline/sim/internal/component"
	"github.com/craterline/sim/internal/config"
	"github.com/craterline/sim/internal/core/event"
	coresys "github.com/craterline/sim/internal/core/system"
	"github.com/craterline/sim/internal/data"
	"github.com/craterline/sim/internal/scripting"
	"github.com/craterline/sim/internal/system"
	"github.com/craterline/sim/internal/terrain"
	"github.com/craterline/sim/internal/world"
)

// ErrSetup wraps level placement errors found while building a simulation.
var ErrSetup = errors.New("simulation setup")

// Options configures New. Config and Level are required.
type Options struct {
	Config  *config.Config
	Level   *data.Level
	Terrain *terrain.Field    // nil = load the level mask or generate hills
	Scripts *scripting.Engine // nil = built-in formulas
	Log     *zap.Logger       // nil = no logging
}

// Simulation advances one battle in fixed ticks. All methods must be called
// from one goroutine.
type Simulation struct {
	id     uuid.UUID
	cfg    *config.Config
	state  *world.State
	bus    *event.Bus
	runner *coresys.Runner
	input  *system.InputSystem
	dt     time.Duration
	log    *zap.Logger

	snap *Snapshot
}

// New builds the state from the level, registers the systems in their
// fixed order and publishes the tick-0 snapshot. Any configuration error
// is returned before a tick runs.
func New(opts Options) (*Simulation, error) {
	if opts.Config == nil || opts.Level == nil {
		return nil, fmt.Errorf("%w: config and level are required", ErrSetup)
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New()
	log = log.With(zap.String("run", id.String()))

	seed := cfg.Simulation.Seed
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	field := opts.Terrain
	if field == nil {
		var err error
		if field, err = BuildTerrain(cfg, opts.Level, rng); err != nil {
			return nil, err
		}
	}

	s := &Simulation{
		id:    id,
		cfg:   cfg,
		state: world.NewState(field, rng),
		bus:   event.NewBus(),
		dt:    cfg.Simulation.TickRate,
		log:   log,
	}
	if err := s.populate(opts.Level); err != nil {
		return nil, err
	}

	s.input = system.NewInputSystem(s.state, opts.Level, s.bus, log)
	s.runner = coresys.NewRunner()
	s.runner.Register(s.input)
	s.runner.Register(system.NewPhysicsSystem(s.state, cfg.Physics, log))
	s.runner.Register(system.NewImpactSystem(s.state, s.bus, opts.Scripts, log))
	s.runner.Register(system.NewCombatSystem(s.state, s.bus, cfg.Physics.Gravity, cfg.Combat.TargetingWorkers, log))
	s.runner.Register(system.NewSpawnerSystem(s.state, opts.Level, s.bus, log))
	s.runner.Register(system.NewCommitSystem(s.state, cfg.Simulation.DebugAssertions, log))
	s.runner.Register(system.NewOutputSystem(s.bus, s.publish))

	s.publish()
	log.Info("simulation ready",
		zap.String("level", opts.Level.Name),
		zap.Int("width", field.Width()),
		zap.Int("height", field.Height()),
		zap.Int("entities", s.state.ECS.Pool().Count()),
		zap.Uint64("seed", seed),
	)
	return s, nil
}

// BuildTerrain loads the level's mask, or generates hills from the terrain
// config when the level names none.
func BuildTerrain(cfg *config.Config, lvl *data.Level, rng *rand.Rand) (*terrain.Field, error) {
	if lvl.Terrain.Mask != "" {
		return data.LoadMask(lvl.Terrain.Mask, lvl.Terrain.Width, lvl.Terrain.Height)
	}
	tc := cfg.Terrain
	w, h := tc.Width, tc.Height
	if lvl.Terrain.Width > 0 {
		w = lvl.Terrain.Width
	}
	if lvl.Terrain.Height > 0 {
		h = lvl.Terrain.Height
	}
	return terrain.Generate(w, h, rng, terrain.GenParams{Base: tc.Base, Variance: tc.Variance, Octaves: tc.Octaves})
}

// populate places the level's structures, turrets and units, in that order,
// and checks the spawner columns.
func (s *Simulation) populate(lvl *data.Level) error {
	st := s.state
	width := st.Terrain.Width()
	var errs []error
	inField := func(what string, col int) bool {
		if col < 0 || col >= width {
			errs = append(errs, fmt.Errorf("%w: %s column %d outside [0,%d)", ErrSetup, what, col, width))
			return false
		}
		return true
	}

	for _, sd := range lvl.Structures {
		if !inField("structure "+sd.Name, sd.Column) {
			continue
		}
		team, _ := component.ParseTeam(sd.Team)
		st.AttachStructure(st.ECS.CreateEntity(), sd.Column, world.BodySpec{
			Team: team, Health: sd.Health, HalfW: sd.HalfWidth, HalfH: sd.HalfHeight,
		})
	}

	for _, td := range lvl.Turrets {
		if !inField("turret "+td.Name, td.Column) {
			continue
		}
		mount, err := system.Mount(lvl, td.Armament(), s.cfg.Combat.MuzzleOffset)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: turret %s: %w", ErrSetup, td.Name, err))
			continue
		}
		team, _ := component.ParseTeam(td.Team)
		st.AttachTurret(st.ECS.CreateEntity(), td.Column, world.BodySpec{
			Team: team, Health: td.Health, HalfW: td.HalfWidth, HalfH: td.HalfHeight,
		}, mount)
	}

	for _, p := range lvl.Placements {
		if !inField("placement "+p.Template, p.Column) {
			continue
		}
		tmpl, ok := lvl.Template(p.Template)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: unknown unit template %q", ErrSetup, p.Template))
			continue
		}
		if err := system.AttachTemplate(st, lvl, st.ECS.CreateEntity(), p.Column, tmpl); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrSetup, err))
		}
	}

	for _, sp := range lvl.Spawners {
		inField("spawner "+sp.Name, sp.Column)
	}
	return errors.Join(errs...)
}

// Step runs one tick. While paused only intents are applied and the
// snapshot is republished; the tick counter does not advance.
func (s *Simulation) Step() {
	s.runner.TickPhase(coresys.PhaseInput, s.dt)
	if s.state.Paused {
		s.runner.TickPhase(coresys.PhaseOutput, s.dt)
		return
	}
	s.runner.TickAfter(coresys.PhaseInput, s.dt)
}

// ApplyPlaceUnit queues a unit of the named template on a column. Columns
// outside the field and unknown templates are ignored.
func (s *Simulation) ApplyPlaceUnit(column int, template string) {
	s.input.Enqueue(system.PlaceUnit{Column: column, Template: template})
}

// ApplyPanCamera queues a viewport move.
func (s *Simulation) ApplyPanCamera(dx, dy float64) {
	s.input.Enqueue(system.PanCamera{DX: dx, DY: dy})
}

// ApplyPause queues a pause or resume.
func (s *Simulation) ApplyPause(paused bool) {
	s.input.Enqueue(system.SetPause{Paused: paused})
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() uint64 { return s.state.Tick }

// TickRate returns the fixed tick duration.
func (s *Simulation) TickRate() time.Duration { return s.dt }

// RunID identifies this simulation in logs.
func (s *Simulation) RunID() uuid.UUID { return s.id }

// State exposes the live state to tools and tests. Callers must not keep
// pointers into it across Step calls.
func (s *Simulation) State() *world.State { return s.state }

// TerrainSolidity copies the full solidity buffer, row-major, top row
// first, one byte per sample.
func (s *Simulation) TerrainSolidity(dst []byte) int {
	return s.state.Terrain.CopySolidity(dst)
}
