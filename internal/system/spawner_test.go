package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/craterline/sim/internal/component"
	"github.com/craterline/sim/internal/core/event"
	"github.com/craterline/sim/internal/data"
)

func armedLevel(t *testing.T) *data.Level {
	t.Helper()
	lvl, err := data.NewLevel(data.Level{
		Name:    "armed",
		Weapons: []data.WeaponDef{{Name: "arrow", Damage: 8, CraterRadius: 1, HalfSize: 0.15}},
		Units: []data.UnitTemplate{
			{Name: "raider", Team: data.TeamEnemy, Health: 20, HalfWidth: 0.5, HalfHeight: 1, WalkSpeed: -3},
			{
				Name: "bowman", Team: data.TeamEnemy, Health: 20, HalfWidth: 0.5, HalfHeight: 1,
				Armament: &data.ArmamentDef{
					Weapon: "arrow", Range: 30, MinRange: 2,
					Reload: 1500 * time.Millisecond, FlightTime: 900 * time.Millisecond, Muzzle: 0.5,
				},
			},
		},
		Spawners: []data.SpawnerDef{
			{Name: "east", Template: "raider", Column: 30, Interval: 100 * time.Millisecond, Limit: 3},
			{Name: "offside", Template: "raider", Column: 500, Interval: time.Second},
		},
	})
	require.NoError(t, err)
	return lvl
}

func TestSpawner_FiresEveryIntervalUpToLimit(t *testing.T) {
	st := flatState(t, 100, 80, 50)
	bus := event.NewBus()
	var placed []event.UnitPlaced
	event.Subscribe(bus, func(ev event.UnitPlaced) { placed = append(placed, ev) })
	sp := NewSpawnerSystem(st, armedLevel(t), bus, zap.NewNop())

	sp.Update(60 * time.Millisecond)
	assert.Zero(t, st.ECS.PendingSpawns(), "first spawn one interval after the start")

	sp.Update(60 * time.Millisecond)
	assert.Equal(t, 1, st.ECS.PendingSpawns())
	assert.Zero(t, st.Kinds.Len(), "spawn waits for commit")

	sp.Update(250 * time.Millisecond)
	assert.Equal(t, 3, sp.Spawned("east"), "a long tick catches up")

	sp.Update(time.Second)
	assert.Equal(t, 3, sp.Spawned("east"), "limit reached")
	assert.Zero(t, sp.Spawned("offside"), "spawner outside the field never runs")

	commit(st)
	flush(bus)
	require.Equal(t, 3, st.Kinds.Len())
	for _, id := range st.Kinds.IDs() {
		pos, _ := st.Positions.Get(id)
		assert.Equal(t, 30.5, pos.X)
		assert.Equal(t, component.TeamEnemy, st.TeamOf(id))
		assert.False(t, st.Turrets.Has(id), "raiders are unarmed")
	}
	require.Len(t, placed, 3)
	for _, ev := range placed {
		assert.Equal(t, "east", ev.Spawner)
		assert.Equal(t, "raider", ev.Template)
	}
}

func TestSpawner_UnlimitedKeepsGoing(t *testing.T) {
	st := flatState(t, 100, 80, 50)
	lvl, err := data.NewLevel(data.Level{
		Name:     "endless",
		Units:    []data.UnitTemplate{{Name: "raider", Team: data.TeamEnemy, Health: 20, HalfWidth: 0.5, HalfHeight: 1}},
		Spawners: []data.SpawnerDef{{Name: "gate", Template: "raider", Column: 5, Interval: 50 * time.Millisecond}},
	})
	require.NoError(t, err)
	sp := NewSpawnerSystem(st, lvl, event.NewBus(), zap.NewNop())

	for i := 0; i < 20; i++ {
		sp.Update(50 * time.Millisecond)
	}
	assert.Equal(t, 20, sp.Spawned("gate"))
}
