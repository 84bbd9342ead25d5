package world

import (
	"math/rand/v2"

	"github.com/craterline/sim/internal/collision"
	"github.com/craterline/sim/internal/component"
	"github.com/craterline/sim/internal/core/ecs"
	"github.com/craterline/sim/internal/terrain"
)

// ImpactEvent is produced by physics when a projectile strikes terrain or an
// entity, and consumed by the impact system in the same tick.
type ImpactEvent struct {
	X, Y         float64
	Damage       float64
	CraterRadius float64 // 0 = from the crater formula
	Speed        float64
	Source       ecs.EntityID // the projectile's shooter (weak)
	Projectile   ecs.EntityID
	Direct       ecs.EntityID // entity struck directly, zero for terrain
}

// State is the whole simulation state: the entity set, its component
// stores and the terrain. It is passed explicitly to every system.
// Accessed only from the simulation goroutine; targeting scans read it in
// parallel while no system writes.
type State struct {
	ECS *ecs.World

	Positions   *ecs.PtrComponentStore[component.Position]
	Velocities  *ecs.PtrComponentStore[component.Velocity]
	Extents     *ecs.PtrComponentStore[component.Extent]
	Healths     *ecs.PtrComponentStore[component.Health]
	Teams       *ecs.PtrComponentStore[component.Team]
	Kinds       *ecs.PtrComponentStore[component.Kind]
	Motions     *ecs.PtrComponentStore[component.Motion]
	Walks       *ecs.PtrComponentStore[component.Walk]
	Turrets     *ecs.PtrComponentStore[component.Turret]
	Projectiles *ecs.PtrComponentStore[component.Projectile]

	Terrain  *terrain.Field
	Resolver *collision.Resolver
	Grid     *collision.Grid // entity broadphase, rebuilt by physics each tick

	Impacts []ImpactEvent // this tick only, cleared at commit

	Tick   uint64
	Rand   *rand.Rand
	Camera Camera
	Paused bool
}

// Camera is the render viewport offset in field coordinates.
type Camera struct {
	X, Y float64
}

// NewState wires the component stores into the ECS registry so a despawn
// clears every store.
func NewState(field *terrain.Field, rng *rand.Rand) *State {
	s := &State{
		ECS:         ecs.NewWorld(),
		Positions:   ecs.NewPtrComponentStore[component.Position](),
		Velocities:  ecs.NewPtrComponentStore[component.Velocity](),
		Extents:     ecs.NewPtrComponentStore[component.Extent](),
		Healths:     ecs.NewPtrComponentStore[component.Health](),
		Teams:       ecs.NewPtrComponentStore[component.Team](),
		Kinds:       ecs.NewPtrComponentStore[component.Kind](),
		Motions:     ecs.NewPtrComponentStore[component.Motion](),
		Walks:       ecs.NewPtrComponentStore[component.Walk](),
		Turrets:     ecs.NewPtrComponentStore[component.Turret](),
		Projectiles: ecs.NewPtrComponentStore[component.Projectile](),
		Terrain:     field,
		Resolver:    collision.NewResolver(field),
		Grid:        collision.NewGrid(),
		Impacts:     make([]ImpactEvent, 0, 16),
		Rand:        rng,
	}
	reg := s.ECS.Registry()
	reg.Register("position", s.Positions)
	reg.Register("velocity", s.Velocities)
	reg.Register("extent", s.Extents)
	reg.Register("health", s.Healths)
	reg.Register("team", s.Teams)
	reg.Register("kind", s.Kinds)
	reg.Register("motion", s.Motions)
	reg.Register("walk", s.Walks)
	reg.Register("turret", s.Turrets)
	reg.Register("projectile", s.Projectiles)
	return s
}

// Live reports whether id resolves to an entity that is alive and not
// already scheduled for despawn. Weak references go through here.
func (s *State) Live(id ecs.EntityID) bool {
	return s.ECS.Alive(id) && !s.ECS.PendingDestruction(id)
}

// Despawn marks the entity Destroyed (if it moves) and defers its removal
// to commit.
func (s *State) Despawn(id ecs.EntityID) {
	if m, ok := s.Motions.Get(id); ok {
		m.State = component.Destroyed
	}
	s.ECS.MarkForDestruction(id)
}

// Box returns the entity's bounding box.
func (s *State) Box(id ecs.EntityID) (collision.Box, bool) {
	p, ok := s.Positions.Get(id)
	if !ok {
		return collision.Box{}, false
	}
	e, ok := s.Extents.Get(id)
	if !ok {
		return collision.Box{}, false
	}
	return collision.BoxAt(collision.Vec2{X: p.X, Y: p.Y}, e.HalfW, e.HalfH), true
}

// TeamOf returns the entity's team, zero when it has none.
func (s *State) TeamOf(id ecs.EntityID) component.Team {
	if t, ok := s.Teams.Get(id); ok {
		return *t
	}
	return 0
}

// RebuildGrid registers every live, non-projectile entity box in the
// broadphase, in ascending id order.
func (s *State) RebuildGrid() {
	s.Grid.Reset()
	ecs.Each2(s.Positions, s.Extents, func(id ecs.EntityID, p *component.Position, e *component.Extent) {
		if !s.Live(id) || s.Projectiles.Has(id) {
			return
		}
		s.Grid.Insert(id, collision.BoxAt(collision.Vec2{X: p.X, Y: p.Y}, e.HalfW, e.HalfH))
	})
}

// SurfaceY returns the y of the ground top in a column: the row above the
// highest solid sample, or 0 over an empty column.
func (s *State) SurfaceY(col int) float64 {
	return float64(s.Terrain.HeightAt(col) + 1)
}
