package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/craterline/sim/internal/core/ecs"
	"github.com/craterline/sim/internal/terrain"
)

type fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

func flatField(t fataler, width, height, surface int) *terrain.Field {
	t.Helper()
	buf := make([]byte, width*height)
	for y := height - surface; y < height; y++ {
		for x := 0; x < width; x++ {
			buf[y*width+x] = 1
		}
	}
	f, err := terrain.FromBytes(width, height, buf)
	if err != nil {
		t.Fatalf("flat field: %v", err)
	}
	return f
}

func TestSegmentVsTerrain_AboveSurfaceIsClear(t *testing.T) {
	r := NewResolver(flatField(t, 100, 80, 50))
	_, ok := r.SegmentVsTerrain(Vec2{0.5, 60.2}, Vec2{99.5, 50.0})
	assert.False(t, ok)
}

func TestSegmentVsTerrain_VerticalDropHitsColumnTop(t *testing.T) {
	f := flatField(t, 100, 80, 50)
	r := NewResolver(f)

	hit, ok := r.SegmentVsTerrain(Vec2{10.5, 75}, Vec2{10.5, 0})
	require.True(t, ok)
	assert.Equal(t, 10, hit.Col)
	assert.Equal(t, f.HeightAt(10), hit.Row)
	assert.Equal(t, Vec2{10.5, 49.5}, hit.Point)
	assert.Equal(t, Vec2{10.5, 50.5}, hit.Prev)

	f.Carve(10.5, 49.5, 3)
	hit, ok = r.SegmentVsTerrain(Vec2{10.5, 75}, Vec2{10.5, 0})
	require.True(t, ok)
	assert.Equal(t, f.HeightAt(10), hit.Row, "carved column is observed on the next query")
}

func TestSegmentVsTerrain_OutsideFieldIsOpenAir(t *testing.T) {
	r := NewResolver(flatField(t, 20, 20, 10))
	_, ok := r.SegmentVsTerrain(Vec2{-30, 5}, Vec2{-1, 5})
	assert.False(t, ok)
	_, ok = r.SegmentVsTerrain(Vec2{25, 5}, Vec2{40, -10})
	assert.False(t, ok)
}

func TestSegmentVsTerrain_StartInsideSolid(t *testing.T) {
	r := NewResolver(flatField(t, 20, 20, 10))
	hit, ok := r.SegmentVsTerrain(Vec2{3.2, 4.8}, Vec2{3.2, 15})
	require.True(t, ok)
	assert.Zero(t, hit.Step)
	assert.Equal(t, 3, hit.Col)
	assert.Equal(t, 4, hit.Row)
}

func TestSegmentVsTerrain_DiagonalTieBreak(t *testing.T) {
	// 3x3, solid at (col 0,row 1) and (col 1,row 0). A diagonal step from
	// (0,0) to (1,1) touches both corners at the same distance.
	f, err := terrain.FromBytes(3, 3, []byte{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
	})
	require.NoError(t, err)
	r := NewResolver(f)

	hit, ok := r.SegmentVsTerrain(Vec2{0.5, 0.5}, Vec2{1.5, 1.5})
	require.True(t, ok)
	assert.Equal(t, 1, hit.Step)
	assert.Equal(t, 0, hit.Col, "lowest column wins between equidistant corners")
	assert.Equal(t, 1, hit.Row)
}

func TestSegmentVsTerrain_NonFiniteIsClear(t *testing.T) {
	r := NewResolver(flatField(t, 10, 10, 5))
	var zero float64
	_, ok := r.SegmentVsTerrain(Vec2{1, 1 / zero}, Vec2{1, 0})
	assert.False(t, ok)
}

func TestSegmentVsTerrain_LongSegmentIsClipped(t *testing.T) {
	f := flatField(t, 100, 80, 50)
	r := NewResolver(f)

	hit, ok := r.SegmentVsTerrain(Vec2{10.5, 75}, Vec2{10.5, -1e6})
	require.True(t, ok, "a long drop still reaches the ground")
	assert.Equal(t, 10, hit.Col)
	assert.Equal(t, 49, hit.Row)

	_, ok = r.SegmentVsTerrain(Vec2{-1e6, 60.5}, Vec2{1e6, 20.5})
	assert.True(t, ok, "crossing the whole field through the ground")

	_, ok = r.SegmentVsTerrain(Vec2{-1e6, 75.5}, Vec2{1e6, 75.5})
	assert.False(t, ok, "open air above the surface")
	_, ok = r.SegmentVsTerrain(Vec2{-1e6, -5}, Vec2{1e6, -5})
	assert.False(t, ok, "below the field")

	sw, ok := r.SweepProjectile(Vec2{30.5, 75}, Vec2{30.5, -1e7}, nil, nil)
	require.True(t, ok)
	assert.True(t, sw.Entity.IsZero())
	assert.Equal(t, 49, sw.Row)
}

func TestSegmentVsTerrain_Deterministic(t *testing.T) {
	f := flatField(t, 64, 64, 30)
	f.Carve(20, 30, 6)
	f.Carve(40, 25, 4)
	r := NewResolver(f)
	rapid.Check(t, func(t *rapid.T) {
		a := Vec2{rapid.Float64Range(-8, 72).Draw(t, "ax"), rapid.Float64Range(-8, 72).Draw(t, "ay")}
		b := Vec2{rapid.Float64Range(-8, 72).Draw(t, "bx"), rapid.Float64Range(-8, 72).Draw(t, "by")}
		h1, ok1 := r.SegmentVsTerrain(a, b)
		h2, ok2 := r.SegmentVsTerrain(a, b)
		if ok1 != ok2 || h1 != h2 {
			t.Fatalf("results differ: %v/%v vs %v/%v", h1, ok1, h2, ok2)
		}
		if ok1 && !f.IsSolid(h1.Col, h1.Row) {
			t.Fatalf("hit an open sample %d,%d", h1.Col, h1.Row)
		}
	})
}

func TestSegmentVsTerrain_NeverHitsAboveTerrain(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		surface := rapid.IntRange(0, 40).Draw(t, "surface")
		f := flatField(t, 48, 48, surface)
		r := NewResolver(f)
		floor := float64(surface)
		a := Vec2{rapid.Float64Range(-4, 52).Draw(t, "ax"), rapid.Float64Range(floor, 60).Draw(t, "ay")}
		b := Vec2{rapid.Float64Range(-4, 52).Draw(t, "bx"), rapid.Float64Range(floor, 60).Draw(t, "by")}
		if h, ok := r.SegmentVsTerrain(a, b); ok {
			t.Fatalf("segment %v -> %v above row %d hit %v", a, b, surface-1, h)
		}
	})
}

func TestBoundsVsTerrain(t *testing.T) {
	r := NewResolver(flatField(t, 100, 80, 50))

	pen, ok := r.BoundsVsTerrain(Vec2{10.5, 49.7}, 0.5, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 0.8, pen.Depth, 1e-9)
	assert.Equal(t, 49, pen.Row)

	_, ok = r.BoundsVsTerrain(Vec2{10.5, 50.5}, 0.5, 0.5)
	assert.False(t, ok, "feet resting exactly on the surface do not penetrate")

	_, ok = r.BoundsVsTerrain(Vec2{-5, 10}, 0.5, 0.5)
	assert.False(t, ok)
}

func TestSupported(t *testing.T) {
	f := flatField(t, 100, 80, 50)
	r := NewResolver(f)

	assert.True(t, r.Supported(Vec2{10.5, 51}, 0.5, 1, 0.5))
	assert.True(t, r.Supported(Vec2{10.5, 51.3}, 0.5, 1, 0.5), "hovering within tolerance")
	assert.False(t, r.Supported(Vec2{10.5, 52}, 0.5, 1, 0.5))

	f.Carve(10.5, 49.5, 3)
	assert.False(t, r.Supported(Vec2{10.5, 51}, 0.5, 1, 0.5))
}

func TestSweepProjectile_EntityBeforeTerrain(t *testing.T) {
	r := NewResolver(flatField(t, 100, 80, 50))
	g := NewGrid()
	unit := ecs.NewEntityID(4, 1)
	g.Insert(unit, BoxAt(Vec2{10.5, 51}, 0.5, 1))

	hit, ok := r.SweepProjectile(Vec2{10.5, 70}, Vec2{10.5, 40}, g, nil)
	require.True(t, ok)
	assert.Equal(t, unit, hit.Entity)
	assert.Equal(t, 51, hit.Row)

	hit, ok = r.SweepProjectile(Vec2{10.5, 70}, Vec2{10.5, 40}, g, func(id ecs.EntityID) bool { return id == unit })
	require.True(t, ok)
	assert.True(t, hit.Entity.IsZero(), "skipped entity lets the sweep reach terrain")
	assert.Equal(t, 49, hit.Row)
}

func TestSweepProjectile_NoHitPastTerrain(t *testing.T) {
	r := NewResolver(flatField(t, 100, 80, 50))
	g := NewGrid()
	g.Insert(ecs.NewEntityID(1, 1), BoxAt(Vec2{10.5, 45}, 0.5, 1))

	hit, ok := r.SweepProjectile(Vec2{10.5, 70}, Vec2{10.5, 30}, g, nil)
	require.True(t, ok)
	assert.True(t, hit.Entity.IsZero())
	assert.Equal(t, 49, hit.Row)
}

func TestGrid_QuerySortedAndDeduplicated(t *testing.T) {
	g := NewGrid()
	a, b, c := ecs.NewEntityID(9, 1), ecs.NewEntityID(2, 1), ecs.NewEntityID(5, 1)
	g.Insert(a, Box{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20})
	g.Insert(b, Box{MinX: 3, MinY: 3, MaxX: 4, MaxY: 4})
	g.Insert(c, Box{MinX: 50, MinY: 50, MaxX: 51, MaxY: 51})

	got := g.Query(Box{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10})
	require.Len(t, got, 2)
	assert.Equal(t, b, got[0].ID)
	assert.Equal(t, a, got[1].ID)

	g.Reset()
	assert.Zero(t, g.Len())
	assert.Empty(t, g.Query(Box{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}))
}
