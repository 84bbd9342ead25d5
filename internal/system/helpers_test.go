package system

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/craterline/sim/internal/component"
	"github.com/craterline/sim/internal/config"
	"github.com/craterline/sim/internal/core/ecs"
	"github.com/craterline/sim/internal/terrain"
	"github.com/craterline/sim/internal/world"
)

const tick = 16 * time.Millisecond

// flatState returns a state over a width x height field solid below row
// surface.
func flatState(t *testing.T, width, height, surface int) *world.State {
	t.Helper()
	buf := make([]byte, width*height)
	for y := height - surface; y < height; y++ {
		for x := 0; x < width; x++ {
			buf[y*width+x] = 1
		}
	}
	f, err := terrain.FromBytes(width, height, buf)
	require.NoError(t, err)
	return world.NewState(f, rand.New(rand.NewPCG(1, 2)))
}

func physicsConfig() config.PhysicsConfig {
	return config.Defaults().Physics
}

func addUnit(st *world.State, col int, team component.Team, health float64) ecs.EntityID {
	id := st.ECS.CreateEntity()
	st.AttachUnit(id, col, world.BodySpec{Team: team, Health: health, HalfW: 0.5, HalfH: 1}, 0)
	return id
}

// addUnitAt places a unit with a 1x1 box centered on (x,y).
func addUnitAt(st *world.State, x, y float64, team component.Team, health float64) ecs.EntityID {
	id := st.ECS.CreateEntity()
	st.AttachUnit(id, int(x), world.BodySpec{Team: team, Health: health, HalfW: 0.5, HalfH: 0.5}, 0)
	p, _ := st.Positions.Get(id)
	p.X, p.Y = x, y
	return id
}

func addProjectile(st *world.State, x, y, vx, vy float64, team component.Team, p component.Projectile) ecs.EntityID {
	id := st.ECS.CreateEntity()
	p.SourceTeam = team
	st.AttachProjectile(id, component.Position{X: x, Y: y}, component.Velocity{X: vx, Y: vy}, 0.25, team, p)
	return id
}

// commit flushes structural changes the way the commit phase does.
func commit(st *world.State) {
	st.ECS.FlushDestroyQueue()
	st.ECS.FlushSpawnQueue()
	st.Impacts = st.Impacts[:0]
	st.Tick++
}
