package system

import (
	"errors"
	"fmt"

	"github.com/craterline/sim/internal/component"
	"github.com/craterline/sim/internal/core/ecs"
	"github.com/craterline/sim/internal/world"
)

// ErrInvariant marks a state that commit must never leave behind.
var ErrInvariant = errors.New("state invariant violated")

// CheckInvariants validates the post-commit state: no survivor at zero
// health or in the Destroyed state, every mover has a position, and no
// store holds components of a dead id.
func CheckInvariants(st *world.State) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...))
	}

	st.Healths.Each(func(id ecs.EntityID, h *component.Health) {
		if h.Current <= 0 {
			fail("entity %d survived commit with health %.2f", id, h.Current)
		}
	})
	st.Motions.Each(func(id ecs.EntityID, m *component.Motion) {
		if m.State == component.Destroyed {
			fail("entity %d survived commit while destroyed", id)
		}
	})
	for _, s := range []interface{ IDs() []ecs.EntityID }{st.Velocities, st.Motions, st.Walks, st.Projectiles} {
		for _, id := range s.IDs() {
			if !st.Positions.Has(id) {
				fail("entity %d has movement components but no position", id)
			}
		}
	}
	for _, id := range st.Kinds.IDs() {
		if !st.ECS.Alive(id) {
			fail("components left on dead entity %d: %v", id, st.ECS.Registry().Holders(id))
		}
	}
	if n := st.ECS.PendingSpawns(); n != 0 {
		fail("%d spawns left queued after commit", n)
	}
	return errors.Join(errs...)
}
