package system

import (
	"cmp"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/craterline/sim/internal/collision"
	"github.com/craterline/sim/internal/component"
	"github.com/craterline/sim/internal/core/ecs"
	"github.com/craterline/sim/internal/core/event"
	coresys "github.com/craterline/sim/internal/core/system"
	"github.com/craterline/sim/internal/world"
)

// CombatSystem runs targeting and firing for every weapon mount, turrets
// and armed units alike (Phase 3). Ready mounts scan for targets in
// parallel against the read-only state; firing, and with it every draw
// from the shared random source, happens afterwards in id order.
type CombatSystem struct {
	state   *world.State
	bus     *event.Bus
	gravity float64
	workers int
	log     *zap.Logger
}

func NewCombatSystem(state *world.State, bus *event.Bus, gravity float64, workers int, log *zap.Logger) *CombatSystem {
	if workers < 1 {
		workers = 1
	}
	return &CombatSystem{state: state, bus: bus, gravity: gravity, workers: workers, log: log}
}

func (s *CombatSystem) Phase() coresys.Phase { return coresys.PhaseCombat }

type acquisition struct {
	target ecs.EntityID
	ok     bool
}

func (s *CombatSystem) Update(dt time.Duration) {
	st := s.state
	var ready []ecs.EntityID
	st.Turrets.Each(func(id ecs.EntityID, t *component.Turret) {
		if !st.Live(id) {
			return
		}
		if !t.Target.IsZero() && !st.Live(t.Target) {
			t.Target = 0
		}
		t.ReloadTimer -= dt
		if t.ReloadTimer <= 0 {
			t.ReloadTimer = 0
			ready = append(ready, id)
		}
	})
	if len(ready) == 0 {
		return
	}

	found := make([]acquisition, len(ready))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, id := range ready {
		g.Go(func() error {
			target, ok := s.Acquire(id)
			found[i] = acquisition{target: target, ok: ok}
			return nil
		})
	}
	_ = g.Wait() // scans never fail

	for i, id := range ready {
		t, _ := st.Turrets.Get(id)
		t.Target = found[i].target
		if found[i].ok {
			s.fire(id, t)
		}
	}
}

// Acquire picks the turret's target: the nearest live opposing entity with
// health whose center lies within [MinRange, Range] and which the muzzle
// can see over the terrain. Equal distances go to the lower id. Safe to
// call concurrently while nothing writes the state.
func (s *CombatSystem) Acquire(turret ecs.EntityID) (ecs.EntityID, bool) {
	st := s.state
	t, ok := st.Turrets.Get(turret)
	if !ok {
		return 0, false
	}
	pos, ok := st.Positions.Get(turret)
	if !ok {
		return 0, false
	}
	team := st.TeamOf(turret)
	from := collision.Vec2{X: pos.X, Y: pos.Y}

	type candidate struct {
		id ecs.EntityID
		d  float64
		at collision.Vec2
	}
	var cands []candidate
	for _, id := range st.Healths.IDs() {
		if id == turret || !st.Live(id) || !team.Opposes(st.TeamOf(id)) {
			continue
		}
		p, ok := st.Positions.Get(id)
		if !ok {
			continue
		}
		at := collision.Vec2{X: p.X, Y: p.Y}
		d := from.Dist(at)
		if d < t.MinRange || d > t.Range {
			continue
		}
		cands = append(cands, candidate{id: id, d: d, at: at})
	}
	slices.SortFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(a.d, b.d); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	muzzle := s.muzzle(turret, pos, t)
	for _, c := range cands {
		if _, blocked := st.Resolver.SegmentVsTerrain(muzzle, c.at); !blocked {
			return c.id, true
		}
	}
	return 0, false
}

func (s *CombatSystem) muzzle(id ecs.EntityID, pos *component.Position, t *component.Turret) collision.Vec2 {
	top := pos.Y
	if e, ok := s.state.Extents.Get(id); ok {
		top += e.HalfH
	}
	return collision.Vec2{X: pos.X, Y: top + t.Muzzle}
}

// LaunchVelocity returns the initial velocity that carries a ballistic body
// from (x0,y0) to (x1,y1) in exactly flight under gravity g (negative is
// down).
func LaunchVelocity(x0, y0, x1, y1 float64, flight time.Duration, g float64) (vx, vy float64) {
	sec := flight.Seconds()
	if sec <= 0 {
		return 0, 0
	}
	vx = (x1 - x0) / sec
	vy = (y1 - y0 - 0.5*g*sec*sec) / sec
	return vx, vy
}

func (s *CombatSystem) fire(id ecs.EntityID, t *component.Turret) {
	st := s.state
	pos, _ := st.Positions.Get(id)
	tp, ok := st.Positions.Get(t.Target)
	if !ok {
		return
	}
	from := s.muzzle(id, pos, t)
	vx, vy := LaunchVelocity(from.X, from.Y, tp.X, tp.Y, t.FlightTime, s.gravity)
	if t.Spread > 0 {
		vx += (st.Rand.Float64()*2 - 1) * t.Spread
		vy += (st.Rand.Float64()*2 - 1) * t.Spread
	}
	if t.MaxLaunchSpeed > 0 && math.Hypot(vx, vy) > t.MaxLaunchSpeed {
		s.log.Debug("launch too fast, holding fire",
			zap.Uint64("turret", uint64(id)),
			zap.Uint64("target", uint64(t.Target)),
			zap.Float64("speed", math.Hypot(vx, vy)),
		)
		return
	}

	team := st.TeamOf(id)
	w := t.Weapon
	proj := component.Projectile{
		Damage:       w.Damage,
		CraterRadius: w.CraterRadius,
		MaxAge:       w.MaxAge,
		Source:       id,
		SourceTeam:   team,
	}
	st.ECS.QueueSpawn(func(pid ecs.EntityID) {
		st.AttachProjectile(pid,
			component.Position{X: from.X, Y: from.Y},
			component.Velocity{X: vx, Y: vy},
			w.HalfSize, team, proj)
	})
	t.ReloadTimer = t.Reload

	event.Emit(s.bus, event.ProjectileFired{
		Tick:   st.Tick,
		Turret: id,
		Target: t.Target,
		X:      from.X,
		Y:      from.Y,
		VX:     vx,
		VY:     vy,
		Damage: w.Damage,
	})
	s.log.Debug("weapon fired",
		zap.Uint64("shooter", uint64(id)),
		zap.Uint64("target", uint64(t.Target)),
		zap.String("weapon", w.Name),
	)
}
