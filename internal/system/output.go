package system

import (
	"time"

	"github.com/craterline/sim/internal/core/event"
	coresys "github.com/craterline/sim/internal/core/system"
)

// OutputSystem publishes the render snapshot and delivers the tick's
// notifications. Phase 5 (Output).
type OutputSystem struct {
	bus     *event.Bus
	publish func()
}

func NewOutputSystem(bus *event.Bus, publish func()) *OutputSystem {
	return &OutputSystem{bus: bus, publish: publish}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) {
	if s.publish != nil {
		s.publish()
	}
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
