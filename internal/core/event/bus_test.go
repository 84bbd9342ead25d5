package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversAfterSwapInEmissionOrder(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(e TerrainDestroyed) { got = append(got, "terrain") })
	Subscribe(b, func(e UnitKilled) { got = append(got, "killed") })

	Emit(b, UnitKilled{Tick: 1})
	Emit(b, TerrainDestroyed{Tick: 1, Removed: 3})
	Emit(b, UnitKilled{Tick: 1})
	assert.Equal(t, 3, b.Pending())

	assert.Zero(t, b.DispatchAll(), "nothing is delivered before the swap")
	assert.Empty(t, got)

	b.SwapBuffers()
	assert.Zero(t, b.Pending())
	assert.Equal(t, 3, b.DispatchAll())
	assert.Equal(t, []string{"killed", "terrain", "killed"}, got)

	assert.Zero(t, b.DispatchAll(), "front buffer drains once")
}

func TestBus_UnsubscribedTypesAreDropped(t *testing.T) {
	b := NewBus()
	calls := 0
	Subscribe(b, func(e UnitDamaged) { calls++ })

	Emit(b, ProjectileFired{})
	Emit(b, UnitDamaged{Amount: 4})
	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, 1, calls)
}
