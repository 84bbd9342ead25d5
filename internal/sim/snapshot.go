package sim

import (
	"github.com/craterline/sim/internal/component"
	"github.com/craterline/sim/internal/core/ecs"
	"github.com/craterline/sim/internal/terrain"
	"github.com/craterline/sim/internal/world"
)

// EntityView is one entity as the renderer sees it.
type EntityView struct {
	ID        ecs.EntityID
	Kind      component.Kind
	Team      component.Team
	Motion    component.MotionState
	X, Y      float64
	HalfW     float64
	HalfH     float64
	Health    float64
	MaxHealth float64
}

// Snapshot is the read-only render hand-off built after commit. A snapshot
// is never modified once published; the next Step builds a new one.
type Snapshot struct {
	Tick       uint64
	Entities   []EntityView // ascending id
	Diff       []terrain.Sample
	SolidCount int
	Camera     world.Camera
	Paused     bool
}

// Snapshot returns the snapshot published by the last Step.
func (s *Simulation) Snapshot() *Snapshot { return s.snap }

func (s *Simulation) publish() {
	st := s.state
	snap := &Snapshot{
		Tick:       st.Tick,
		Entities:   make([]EntityView, 0, st.Kinds.Len()),
		Diff:       st.Terrain.TakeDiff(),
		SolidCount: st.Terrain.SolidCount(),
		Camera:     st.Camera,
		Paused:     st.Paused,
	}
	st.Kinds.Each(func(id ecs.EntityID, k *component.Kind) {
		v := EntityView{ID: id, Kind: *k, Team: st.TeamOf(id)}
		if p, ok := st.Positions.Get(id); ok {
			v.X, v.Y = p.X, p.Y
		}
		if e, ok := st.Extents.Get(id); ok {
			v.HalfW, v.HalfH = e.HalfW, e.HalfH
		}
		if h, ok := st.Healths.Get(id); ok {
			v.Health, v.MaxHealth = h.Current, h.Max
		}
		if m, ok := st.Motions.Get(id); ok {
			v.Motion = m.State
		}
		snap.Entities = append(snap.Entities, v)
	})
	s.snap = snap
}

// Find returns the view of id, if present.
func (sn *Snapshot) Find(id ecs.EntityID) (EntityView, bool) {
	for _, v := range sn.Entities {
		if v.ID == id {
			return v, true
		}
	}
	return EntityView{}, false
}
