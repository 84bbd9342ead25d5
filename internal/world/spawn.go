package world

import (
	"github.com/craterline/sim/internal/component"
	"github.com/craterline/sim/internal/core/ecs"
)

// BodySpec is the shared shape of anything placed on the ground.
type BodySpec struct {
	Team   component.Team
	Health float64
	HalfW  float64
	HalfH  float64
}

// AttachUnit gives id the components of a walking unit standing on the
// ground of column col.
func (s *State) AttachUnit(id ecs.EntityID, col int, body BodySpec, walkSpeed float64) {
	s.attachBody(id, col, body, component.KindUnit)
	s.Velocities.Set(id, &component.Velocity{})
	s.Motions.Set(id, &component.Motion{State: component.Grounded})
	if walkSpeed != 0 {
		s.Walks.Set(id, &component.Walk{Speed: walkSpeed})
	}
}

// AttachTurret places a turret on column col. Turrets do not move.
func (s *State) AttachTurret(id ecs.EntityID, col int, body BodySpec, t component.Turret) {
	s.attachBody(id, col, body, component.KindTurret)
	s.Turrets.Set(id, &t)
}

// AttachArmament gives a unit a weapon mount. The combat system fires it
// the same way it fires a turret.
func (s *State) AttachArmament(id ecs.EntityID, t component.Turret) {
	s.Turrets.Set(id, &t)
}

// AttachStructure places a static structure on column col.
func (s *State) AttachStructure(id ecs.EntityID, col int, body BodySpec) {
	s.attachBody(id, col, body, component.KindStructure)
}

// AttachProjectile gives id a projectile's components.
func (s *State) AttachProjectile(id ecs.EntityID, pos component.Position, vel component.Velocity, half float64, team component.Team, p component.Projectile) {
	s.Positions.Set(id, &pos)
	s.Velocities.Set(id, &vel)
	s.Extents.Set(id, &component.Extent{HalfW: half, HalfH: half})
	k := component.KindProjectile
	s.Kinds.Set(id, &k)
	s.Teams.Set(id, &team)
	s.Motions.Set(id, &component.Motion{State: component.Airborne})
	s.Projectiles.Set(id, &p)
}

func (s *State) attachBody(id ecs.EntityID, col int, body BodySpec, kind component.Kind) {
	s.Positions.Set(id, &component.Position{
		X: float64(col) + 0.5,
		Y: s.SurfaceY(col) + body.HalfH,
	})
	s.Extents.Set(id, &component.Extent{HalfW: body.HalfW, HalfH: body.HalfH})
	s.Healths.Set(id, &component.Health{Current: body.Health, Max: body.Health})
	team := body.Team
	s.Teams.Set(id, &team)
	s.Kinds.Set(id, &kind)
}
