package system

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/craterline/sim/internal/core/event"
	coresys "github.com/craterline/sim/internal/core/system"
	"github.com/craterline/sim/internal/data"
	"github.com/craterline/sim/internal/world"
)

// Intent is one queued player command.
type Intent interface {
	intent()
}

// PlaceUnit asks for a unit of Template standing on Column.
type PlaceUnit struct {
	Column   int
	Template string
}

// PanCamera moves the viewport by (DX, DY) samples.
type PanCamera struct {
	DX, DY float64
}

// SetPause pauses or resumes the simulation.
type SetPause struct {
	Paused bool
}

func (PlaceUnit) intent() {}
func (PanCamera) intent() {}
func (SetPause) intent()  {}

const (
	intentQueueSize   = 256
	intentsPerTickCap = 64
)

// InputSystem drains queued intents and applies them. Phase 0 (Input).
// Enqueue may be called from an input goroutine; Update runs on the
// simulation goroutine. Intents beyond the per-tick cap wait for the next
// tick.
type InputSystem struct {
	state *world.State
	level *data.Level
	bus   *event.Bus
	queue chan Intent
	log   *zap.Logger
}

func NewInputSystem(state *world.State, level *data.Level, bus *event.Bus, log *zap.Logger) *InputSystem {
	return &InputSystem{
		state: state,
		level: level,
		bus:   bus,
		queue: make(chan Intent, intentQueueSize),
		log:   log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

// Enqueue queues an intent without blocking. It reports false when the
// queue is full and the intent was dropped.
func (s *InputSystem) Enqueue(in Intent) bool {
	select {
	case s.queue <- in:
		return true
	default:
		s.log.Warn("intent queue full, dropping intent", zap.Any("intent", in))
		return false
	}
}

// Pending returns the number of intents waiting.
func (s *InputSystem) Pending() int { return len(s.queue) }

func (s *InputSystem) Update(_ time.Duration) {
	for i := 0; i < intentsPerTickCap; i++ {
		select {
		case in := <-s.queue:
			s.apply(in)
		default:
			return
		}
	}
}

func (s *InputSystem) apply(in Intent) {
	switch in := in.(type) {
	case PlaceUnit:
		s.placeUnit(in)
	case PanCamera:
		s.panCamera(in)
	case SetPause:
		if s.state.Paused != in.Paused {
			s.log.Info("pause toggled", zap.Bool("paused", in.Paused), zap.Uint64("tick", s.state.Tick))
		}
		s.state.Paused = in.Paused
	}
}

// placeUnit queues the unit's spawn for commit. Columns outside the field
// and unknown templates are ignored.
func (s *InputSystem) placeUnit(in PlaceUnit) {
	st := s.state
	if in.Column < 0 || in.Column >= st.Terrain.Width() {
		s.log.Warn("place unit outside the field", zap.Int("column", in.Column), zap.String("template", in.Template))
		return
	}
	tmpl, ok := s.level.Template(in.Template)
	if !ok {
		s.log.Warn("place unit with unknown template", zap.String("template", in.Template))
		return
	}
	queueTemplate(st, s.level, in.Column, tmpl)
	event.Emit(s.bus, event.UnitPlaced{Tick: st.Tick, Column: in.Column, Template: in.Template})
}

// panCamera moves the viewport, keeping its origin inside the field.
func (s *InputSystem) panCamera(in PanCamera) {
	if math.IsNaN(in.DX) || math.IsNaN(in.DY) {
		return
	}
	cam := &s.state.Camera
	cam.X = clamp(cam.X+in.DX, 0, float64(s.state.Terrain.Width()))
	cam.Y = clamp(cam.Y+in.DY, 0, float64(s.state.Terrain.Height()))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
