package sim

import "github.com/craterline/sim/internal/core/event"

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=./mocks/observer_mock.go -package=mocks . Observer

// Observer receives the simulation's notifications (audio, scoring). Calls
// arrive on the simulation goroutine during Step, after commit, in the
// order the events happened. The simulation never waits on a reply.
type Observer interface {
	TerrainDestroyed(ev event.TerrainDestroyed)
	ProjectileFired(ev event.ProjectileFired)
	UnitDamaged(ev event.UnitDamaged)
	UnitKilled(ev event.UnitKilled)
}

// Subscribe registers an observer for all four notification kinds.
func (s *Simulation) Subscribe(o Observer) {
	event.Subscribe(s.bus, o.TerrainDestroyed)
	event.Subscribe(s.bus, o.ProjectileFired)
	event.Subscribe(s.bus, o.UnitDamaged)
	event.Subscribe(s.bus, o.UnitKilled)
}

// Listen registers a handler for one notification type, including ones the
// Observer interface does not cover such as event.UnitPlaced.
func Listen[T any](s *Simulation, fn func(T)) {
	event.Subscribe(s.bus, fn)
}
