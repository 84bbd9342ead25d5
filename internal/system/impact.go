package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/craterline/sim/internal/collision"
	"github.com/craterline/sim/internal/component"
	"github.com/craterline/sim/internal/core/ecs"
	"github.com/craterline/sim/internal/core/event"
	coresys "github.com/craterline/sim/internal/core/system"
	"github.com/craterline/sim/internal/scripting"
	"github.com/craterline/sim/internal/world"
)

// ImpactSystem resolves the tick's impact events: carves a crater for each
// and applies splash damage to entities whose box reaches into it.
// Phase 2 (Impact).
type ImpactSystem struct {
	state *world.State
	bus   *event.Bus
	lua   *scripting.Engine // nil = built-in formulas
	log   *zap.Logger
}

func NewImpactSystem(state *world.State, bus *event.Bus, lua *scripting.Engine, log *zap.Logger) *ImpactSystem {
	return &ImpactSystem{state: state, bus: bus, lua: lua, log: log}
}

func (s *ImpactSystem) Phase() coresys.Phase { return coresys.PhaseImpact }

func (s *ImpactSystem) Update(_ time.Duration) {
	for i := range s.state.Impacts {
		s.resolve(&s.state.Impacts[i])
	}
}

func (s *ImpactSystem) resolve(ev *world.ImpactEvent) {
	st := s.state
	radius := ev.CraterRadius
	if radius <= 0 {
		radius = s.lua.CraterRadius(scripting.ImpactContext{
			Damage: ev.Damage,
			Speed:  ev.Speed,
			Direct: !ev.Direct.IsZero(),
		})
	}

	removed := st.Terrain.Carve(ev.X, ev.Y, radius)
	s.log.Debug("impact",
		zap.Float64("x", ev.X),
		zap.Float64("y", ev.Y),
		zap.Float64("radius", radius),
		zap.Int("removed", removed),
		zap.Uint64("direct", uint64(ev.Direct)),
	)
	if removed > 0 {
		event.Emit(s.bus, event.TerrainDestroyed{
			Tick:    st.Tick,
			X:       ev.X,
			Y:       ev.Y,
			Radius:  radius,
			Removed: removed,
			Source:  ev.Source,
		})
	}

	if ev.Damage <= 0 {
		return
	}
	center := collision.Vec2{X: ev.X, Y: ev.Y}
	ecs.Each3(st.Healths, st.Positions, st.Extents, func(id ecs.EntityID, h *component.Health, p *component.Position, e *component.Extent) {
		if !st.Live(id) {
			return
		}
		box := collision.BoxAt(collision.Vec2{X: p.X, Y: p.Y}, e.HalfW, e.HalfH)
		d := box.ClosestDist(center)
		if d > radius {
			return
		}
		amount := ev.Damage * s.lua.SplashScale(d, radius)
		if amount <= 0 {
			return
		}
		h.Current -= amount
		event.Emit(s.bus, event.UnitDamaged{
			Tick:      st.Tick,
			Entity:    id,
			Amount:    amount,
			Remaining: h.Current,
			Source:    ev.Source,
		})
		if h.Current <= 0 {
			st.Despawn(id)
			event.Emit(s.bus, event.UnitKilled{Tick: st.Tick, Entity: id, Source: ev.Source})
		}
	})
}
