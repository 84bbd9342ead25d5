package system

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/craterline/sim/internal/component"
	"github.com/craterline/sim/internal/terrain"
	"github.com/craterline/sim/internal/world"
)

func TestPhysics_GroundedUnitFallsAfterFootingCarved(t *testing.T) {
	st := flatState(t, 100, 80, 50)
	ps := NewPhysicsSystem(st, physicsConfig(), zap.NewNop())
	u := addUnit(st, 10, component.TeamAlly, 10)

	ps.Update(tick)
	m, _ := st.Motions.Get(u)
	require.Equal(t, component.Grounded, m.State)
	p, _ := st.Positions.Get(u)
	assert.Equal(t, 51.0, p.Y, "standing on row 49 with half height 1")

	st.Terrain.Carve(10.5, 49.5, 3)

	ps.Update(tick)
	assert.Equal(t, component.Airborne, m.State, "one tick after the carve the unit is airborne")
	v, _ := st.Velocities.Get(u)
	assert.Negative(t, v.Y, "gravity applies on the transition tick")
	assert.Less(t, p.Y, 51.0)
}

func TestPhysics_AirborneUnitLandsOnSurface(t *testing.T) {
	st := flatState(t, 100, 80, 50)
	ps := NewPhysicsSystem(st, physicsConfig(), zap.NewNop())
	u := addUnit(st, 30, component.TeamAlly, 10)
	p, _ := st.Positions.Get(u)
	m, _ := st.Motions.Get(u)
	p.Y = 70
	m.State = component.Airborne

	for i := 0; i < 200 && m.State == component.Airborne; i++ {
		ps.Update(tick)
	}
	require.Equal(t, component.Grounded, m.State)
	assert.Equal(t, 51.0, p.Y)
	v, _ := st.Velocities.Get(u)
	assert.Zero(t, v.Y)
}

func TestPhysics_TerminalVelocity(t *testing.T) {
	st := flatState(t, 20, 2000, 1)
	cfg := physicsConfig()
	ps := NewPhysicsSystem(st, cfg, zap.NewNop())
	u := addUnit(st, 5, component.TeamAlly, 10)
	p, _ := st.Positions.Get(u)
	m, _ := st.Motions.Get(u)
	p.Y = 1900
	m.State = component.Airborne

	for i := 0; i < 200; i++ {
		ps.Update(tick)
	}
	v, _ := st.Velocities.Get(u)
	assert.Equal(t, -cfg.TerminalVelocity, v.Y)
}

func TestPhysics_WalkClimbsStepsAndStopsAtWalls(t *testing.T) {
	// Ground is rows 0-9. Columns 20-24 carry a one-sample ledge, columns
	// 30-31 a three-sample wall.
	const w, h = 60, 40
	buf := make([]byte, w*h)
	solid := func(col, row int) { buf[(h-1-row)*w+col] = 1 }
	for col := 0; col < w; col++ {
		for row := 0; row < 10; row++ {
			solid(col, row)
		}
	}
	for col := 20; col <= 24; col++ {
		solid(col, 10)
	}
	for col := 30; col <= 31; col++ {
		for row := 10; row <= 12; row++ {
			solid(col, row)
		}
	}
	f, err := terrain.FromBytes(w, h, buf)
	require.NoError(t, err)
	st := world.NewState(f, rand.New(rand.NewPCG(1, 2)))
	ps := NewPhysicsSystem(st, physicsConfig(), zap.NewNop())

	u := addUnit(st, 5, component.TeamAlly, 10)
	st.Walks.Set(u, &component.Walk{Speed: 10})
	p, _ := st.Positions.Get(u)

	climbed := false
	for i := 0; i < 240; i++ {
		ps.Update(tick)
		if p.Y == 12 {
			climbed = true
		}
	}
	assert.True(t, climbed, "unit stepped onto the ledge")
	assert.Equal(t, 11.0, p.Y, "back on the ground past the ledge")
	assert.LessOrEqual(t, p.X, 29.5, "the wall is taller than the step height")
	assert.Greater(t, p.X, 28.5)
}

func TestPhysics_ProjectileHitsTerrainOnce(t *testing.T) {
	st := flatState(t, 100, 80, 50)
	ps := NewPhysicsSystem(st, physicsConfig(), zap.NewNop())
	shell := addProjectile(st, 10.5, 60, 0, -40, component.TeamAlly, component.Projectile{Damage: 20, CraterRadius: 3})

	for i := 0; i < 100 && len(st.Impacts) == 0; i++ {
		ps.Update(tick)
	}
	require.Len(t, st.Impacts, 1)
	ev := st.Impacts[0]
	assert.Equal(t, 10.5, ev.X)
	assert.Equal(t, 49.5, ev.Y)
	assert.Equal(t, shell, ev.Projectile)
	assert.True(t, ev.Direct.IsZero())
	assert.True(t, st.ECS.PendingDestruction(shell))

	m, _ := st.Motions.Get(shell)
	assert.Equal(t, component.Destroyed, m.State)

	ps.Update(tick)
	assert.Len(t, st.Impacts, 1, "a pending projectile resolves no second impact")
}

func TestPhysics_ProjectileIgnoresFriendsHitsEnemies(t *testing.T) {
	st := flatState(t, 100, 80, 50)
	ps := NewPhysicsSystem(st, physicsConfig(), zap.NewNop())
	addUnit(st, 10, component.TeamAlly, 10)
	enemy := addUnit(st, 40, component.TeamEnemy, 10)

	addProjectile(st, 10.5, 60, 0, -40, component.TeamAlly, component.Projectile{Damage: 5})
	addProjectile(st, 40.5, 60, 0, -40, component.TeamAlly, component.Projectile{Damage: 5})

	for i := 0; i < 100 && len(st.Impacts) < 2; i++ {
		ps.Update(tick)
	}
	require.Len(t, st.Impacts, 2)
	byDirect := map[bool]world.ImpactEvent{}
	for _, ev := range st.Impacts {
		byDirect[ev.Direct.IsZero()] = ev
	}
	assert.Equal(t, 49.5, byDirect[true].Y, "friendly unit is passed through")
	assert.Equal(t, enemy, byDirect[false].Direct)
	assert.Greater(t, byDirect[false].Y, 50.0)
}

func TestPhysics_ProjectileHitsUnitThatWalkedIntoItsPath(t *testing.T) {
	st := flatState(t, 100, 80, 50)
	ps := NewPhysicsSystem(st, physicsConfig(), zap.NewNop())
	runner := st.ECS.CreateEntity()
	st.AttachUnit(runner, 20, world.BodySpec{Team: component.TeamEnemy, Health: 10, HalfW: 0.5, HalfH: 1}, -300)
	shell := addProjectile(st, 15.5, 52.5, 0, -40, component.TeamAlly, component.Projectile{Damage: 5})

	ps.Update(tick)

	p, _ := st.Positions.Get(runner)
	require.InDelta(t, 15.7, p.X, 1e-9, "walked 4.8 samples this tick")
	require.Len(t, st.Impacts, 1)
	assert.Equal(t, runner, st.Impacts[0].Direct)
	assert.Equal(t, shell, st.Impacts[0].Projectile)
}

func TestPhysics_ProjectileLeavesFieldWithoutImpact(t *testing.T) {
	st := flatState(t, 40, 40, 5)
	ps := NewPhysicsSystem(st, physicsConfig(), zap.NewNop())
	shell := addProjectile(st, 38, 30, 200, 0, component.TeamAlly, component.Projectile{Damage: 5})

	ps.Update(tick)
	assert.Empty(t, st.Impacts)
	assert.True(t, st.ECS.PendingDestruction(shell))
}

func TestPhysics_ProjectileMaxAge(t *testing.T) {
	st := flatState(t, 40, 400, 5)
	ps := NewPhysicsSystem(st, physicsConfig(), zap.NewNop())
	shell := addProjectile(st, 20, 390, 0, 0, component.TeamAlly, component.Projectile{Damage: 5, MaxAge: 50 * time.Millisecond})

	for i := 0; i < 3; i++ {
		ps.Update(tick)
	}
	assert.False(t, st.ECS.PendingDestruction(shell))
	ps.Update(tick)
	assert.True(t, st.ECS.PendingDestruction(shell))
	assert.Empty(t, st.Impacts)
}

func TestPhysics_FallLimitDespawns(t *testing.T) {
	st := flatState(t, 20, 20, 0)
	cfg := physicsConfig()
	cfg.FallLimit = 2
	ps := NewPhysicsSystem(st, cfg, zap.NewNop())
	u := addUnit(st, 5, component.TeamAlly, 10)

	for i := 0; i < 200 && !st.ECS.PendingDestruction(u); i++ {
		ps.Update(tick)
	}
	assert.True(t, st.ECS.PendingDestruction(u))
	m, _ := st.Motions.Get(u)
	assert.Equal(t, component.Destroyed, m.State)
}
