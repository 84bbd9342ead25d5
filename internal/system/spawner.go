package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/craterline/sim/internal/core/event"
	coresys "github.com/craterline/sim/internal/core/system"
	"github.com/craterline/sim/internal/data"
	"github.com/craterline/sim/internal/world"
)

type spawnerState struct {
	def     *data.SpawnerDef
	tmpl    *data.UnitTemplate
	elapsed time.Duration
	spawned int
}

// SpawnerSystem runs the level's repeating unit spawners. Each spawner
// queues its template on its column every interval, up to its limit.
// Spawns appear at commit like every other entity. Runs in Phase 3
// (Combat), after targeting, so it holds still while paused.
type SpawnerSystem struct {
	state    *world.State
	level    *data.Level
	bus      *event.Bus
	spawners []spawnerState
	log      *zap.Logger
}

// NewSpawnerSystem builds the spawners in level order. Spawners naming an
// unknown template or a column outside the field are skipped.
func NewSpawnerSystem(state *world.State, level *data.Level, bus *event.Bus, log *zap.Logger) *SpawnerSystem {
	s := &SpawnerSystem{state: state, level: level, bus: bus, log: log}
	for i := range level.Spawners {
		def := &level.Spawners[i]
		tmpl, ok := level.Template(def.Template)
		if !ok || def.Interval <= 0 || def.Column < 0 || def.Column >= state.Terrain.Width() {
			log.Warn("spawner skipped",
				zap.String("spawner", def.Name),
				zap.String("template", def.Template),
				zap.Int("column", def.Column),
			)
			continue
		}
		s.spawners = append(s.spawners, spawnerState{def: def, tmpl: tmpl})
	}
	return s
}

func (s *SpawnerSystem) Phase() coresys.Phase { return coresys.PhaseCombat }

func (s *SpawnerSystem) Update(dt time.Duration) {
	for i := range s.spawners {
		sp := &s.spawners[i]
		if sp.exhausted() {
			continue
		}
		sp.elapsed += dt
		for sp.elapsed >= sp.def.Interval && !sp.exhausted() {
			sp.elapsed -= sp.def.Interval
			s.spawn(sp)
		}
	}
}

// Spawned reports how many units the named spawner has queued.
func (s *SpawnerSystem) Spawned(name string) int {
	for _, sp := range s.spawners {
		if sp.def.Name == name {
			return sp.spawned
		}
	}
	return 0
}

func (sp *spawnerState) exhausted() bool {
	return sp.def.Limit > 0 && sp.spawned >= sp.def.Limit
}

func (s *SpawnerSystem) spawn(sp *spawnerState) {
	st := s.state
	queueTemplate(st, s.level, sp.def.Column, sp.tmpl)
	sp.spawned++
	event.Emit(s.bus, event.UnitPlaced{
		Tick:     st.Tick,
		Column:   sp.def.Column,
		Template: sp.def.Template,
		Spawner:  sp.def.Name,
	})
	s.log.Debug("spawner fired",
		zap.String("spawner", sp.def.Name),
		zap.String("template", sp.def.Template),
		zap.Int("count", sp.spawned),
	)
}
