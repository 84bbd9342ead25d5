package system

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/craterline/sim/internal/collision"
	"github.com/craterline/sim/internal/component"
	"github.com/craterline/sim/internal/config"
	"github.com/craterline/sim/internal/core/ecs"
	coresys "github.com/craterline/sim/internal/core/system"
	"github.com/craterline/sim/internal/world"
)

// PhysicsSystem moves units and projectiles and resolves them against the
// terrain as it was at the start of the tick. Units move first; projectiles
// then sweep against the unit boxes at their new positions. Projectile
// impacts are recorded on the state for the impact system. Phase 1 (Physics).
type PhysicsSystem struct {
	state *world.State
	cfg   config.PhysicsConfig
	log   *zap.Logger
}

func NewPhysicsSystem(state *world.State, cfg config.PhysicsConfig, log *zap.Logger) *PhysicsSystem {
	return &PhysicsSystem{state: state, cfg: cfg, log: log}
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhasePhysics }

func (s *PhysicsSystem) Update(dt time.Duration) {
	st := s.state
	sec := dt.Seconds()
	ids := st.Motions.IDs()
	for _, id := range ids {
		if st.Live(id) && !st.Projectiles.Has(id) {
			s.stepUnit(id, sec)
		}
	}

	st.RebuildGrid()
	for _, id := range ids {
		if st.Live(id) && st.Projectiles.Has(id) {
			s.stepProjectile(id, dt)
		}
	}
}

// stepUnit advances one unit through the Grounded/Airborne state machine.
func (s *PhysicsSystem) stepUnit(id ecs.EntityID, sec float64) {
	st := s.state
	pos, ok := st.Positions.Get(id)
	if !ok {
		return
	}
	ext, ok := st.Extents.Get(id)
	if !ok {
		return
	}
	vel, ok := st.Velocities.Get(id)
	if !ok {
		return
	}
	m, _ := st.Motions.Get(id)

	if m.State == component.Grounded {
		here := collision.Vec2{X: pos.X, Y: pos.Y}
		if st.Resolver.Supported(here, ext.HalfW, ext.HalfH, s.cfg.GroundTolerance) {
			s.walk(id, pos, ext, sec)
			return
		}
		// Footing was carved away: fall starting this tick.
		m.State = component.Airborne
		vel.Y = 0
	}
	if m.State == component.Airborne {
		s.fall(id, pos, vel, ext, m, sec)
	}
}

// walk moves a grounded unit sideways, climbing ledges up to step_height.
func (s *PhysicsSystem) walk(id ecs.EntityID, pos *component.Position, ext *component.Extent, sec float64) {
	w, ok := s.state.Walks.Get(id)
	if !ok || w.Speed == 0 {
		return
	}
	nx := pos.X + w.Speed*sec
	maxX := float64(s.state.Terrain.Width()) - ext.HalfW
	if nx < ext.HalfW {
		nx = ext.HalfW
	}
	if nx > maxX {
		nx = maxX
	}
	next := collision.Vec2{X: nx, Y: pos.Y}
	pen, hit := s.state.Resolver.BoundsVsTerrain(next, ext.HalfW, ext.HalfH)
	if hit {
		if pen.Depth > s.cfg.StepHeight {
			return // wall
		}
		next.Y += pen.Depth
	}
	pos.X, pos.Y = next.X, next.Y
}

// fall integrates an airborne unit and lands it on the first solid sample
// its feet cross.
func (s *PhysicsSystem) fall(id ecs.EntityID, pos *component.Position, vel *component.Velocity, ext *component.Extent, m *component.Motion, sec float64) {
	st := s.state
	vel.Y += s.cfg.Gravity * sec
	if vel.Y < -s.cfg.TerminalVelocity {
		vel.Y = -s.cfg.TerminalVelocity
	}

	from := collision.Vec2{X: pos.X, Y: pos.Y - ext.HalfH}
	to := collision.Vec2{X: pos.X + vel.X*sec, Y: pos.Y + vel.Y*sec - ext.HalfH}

	if hit, ok := st.Resolver.SegmentVsTerrain(from, to); ok && vel.Y <= 0 {
		pos.X = to.X
		pos.Y = float64(hit.Row+1) + ext.HalfH
		s.land(pos, vel, ext, m)
		return
	}

	pos.X, pos.Y = to.X, to.Y+ext.HalfH
	if vel.Y <= 0 {
		// Box edges can catch ground the feet line missed.
		if pen, ok := st.Resolver.BoundsVsTerrain(collision.Vec2{X: pos.X, Y: pos.Y}, ext.HalfW, ext.HalfH); ok && pen.Depth <= -vel.Y*sec+s.cfg.StepHeight {
			pos.Y += pen.Depth
			s.land(pos, vel, ext, m)
			return
		}
	}

	if pos.Y-ext.HalfH < -s.cfg.FallLimit {
		s.log.Debug("unit fell out of the field", zap.Uint64("entity", uint64(id)))
		st.Despawn(id)
	}
}

func (s *PhysicsSystem) land(pos *component.Position, vel *component.Velocity, ext *component.Extent, m *component.Motion) {
	// Settle out of any sample the box still overlaps.
	if pen, ok := s.state.Resolver.BoundsVsTerrain(collision.Vec2{X: pos.X, Y: pos.Y}, ext.HalfW, ext.HalfH); ok {
		pos.Y += pen.Depth
	}
	vel.X, vel.Y = 0, 0
	m.State = component.Grounded
}

// stepProjectile applies gravity and sweeps the projectile against terrain
// and entity boxes. Any hit is terminal.
func (s *PhysicsSystem) stepProjectile(id ecs.EntityID, dt time.Duration) {
	st := s.state
	pos, ok := st.Positions.Get(id)
	if !ok {
		return
	}
	vel, ok := st.Velocities.Get(id)
	if !ok {
		return
	}
	p, _ := st.Projectiles.Get(id)

	p.Age += dt
	if p.MaxAge > 0 && p.Age > p.MaxAge {
		st.Despawn(id)
		return
	}

	sec := dt.Seconds()
	vel.Y += s.cfg.Gravity * sec
	from := collision.Vec2{X: pos.X, Y: pos.Y}
	to := collision.Vec2{X: pos.X + vel.X*sec, Y: pos.Y + vel.Y*sec}

	skip := func(other ecs.EntityID) bool {
		return other == p.Source || other == id || (p.SourceTeam != 0 && st.TeamOf(other) == p.SourceTeam)
	}
	if hit, ok := st.Resolver.SweepProjectile(from, to, st.Grid, skip); ok {
		st.Impacts = append(st.Impacts, world.ImpactEvent{
			X:            hit.Point.X,
			Y:            hit.Point.Y,
			Damage:       p.Damage,
			CraterRadius: p.CraterRadius,
			Speed:        math.Hypot(vel.X, vel.Y),
			Source:       p.Source,
			Projectile:   id,
			Direct:       hit.Entity,
		})
		pos.X, pos.Y = hit.Point.X, hit.Point.Y
		vel.X, vel.Y = 0, 0
		st.Despawn(id)
		return
	}
	pos.X, pos.Y = to.X, to.Y

	// Left the field sideways or through the floor: gone without impact.
	// Projectiles above the top may still come down.
	if pos.X < 0 || pos.X >= float64(st.Terrain.Width()) || pos.Y < 0 {
		st.Despawn(id)
	}
}
