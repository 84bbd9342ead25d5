// Package collision answers geometric questions against the terrain field:
// segment traversal for projectiles and line of sight, and box tests that
// keep units standing on the ground.
package collision

import "math"

// Terrain is the read-only view of the field the resolver needs.
// *terrain.Field satisfies it.
type Terrain interface {
	Width() int
	Height() int
	IsSolid(col, row int) bool
	HeightAt(col int) int
}

// Resolver runs collision queries against one terrain field. It holds no
// mutable state, so concurrent read-only queries are safe while nothing
// carves the field.
type Resolver struct {
	field Terrain
}

func NewResolver(field Terrain) *Resolver {
	return &Resolver{field: field}
}

// Field returns the terrain the resolver queries.
func (r *Resolver) Field() Terrain { return r.field }

// Hit describes the first solid sample (or entity) a segment reaches.
type Hit struct {
	Col   int
	Row   int
	Point Vec2 // center of the hit sample
	Step  int  // traversal step index, 0 = start cell
	Prev  Vec2 // center of the last open cell before the hit
}

// SegmentVsTerrain walks the cells from start to end and returns the first
// solid one. Endpoints are floored to sample coordinates once; the walk
// itself is integer Bresenham with both corner cells visited on diagonal
// moves, so thin diagonal walls cannot be skipped and a given pair of
// endpoints always yields the same hit. When several solid cells share a
// step, the one nearest the start cell wins, then the lowest column, then
// the lowest row. Cells outside the field are open air.
func (r *Resolver) SegmentVsTerrain(start, end Vec2) (Hit, bool) {
	var (
		hit   Hit
		found bool
	)
	walk(start, end, r.bounds(), func(step int, cells []cellRef, prev cellRef) bool {
		best := -1
		for i, c := range cells {
			if !r.field.IsSolid(c.col, c.row) {
				continue
			}
			if best < 0 || c.before(cells[best]) {
				best = i
			}
		}
		if best < 0 {
			return true
		}
		c := cells[best]
		hit = Hit{Col: c.col, Row: c.row, Point: cellCenter(c.col, c.row), Step: step, Prev: cellCenter(prev.col, prev.row)}
		found = true
		return false
	})
	return hit, found
}

// cellRef is one visited cell with its squared distance to the start cell.
type cellRef struct {
	col, row int
	d2       int
}

func (c cellRef) before(o cellRef) bool {
	if c.d2 != o.d2 {
		return c.d2 < o.d2
	}
	if c.col != o.col {
		return c.col < o.col
	}
	return c.row < o.row
}

// maxWalk is the longest span walked unclipped. Longer segments are first
// clipped to the field bounds, since cells outside the field are open air.
const maxWalk = 1 << 16

// bounds is the field rectangle grown by one sample on every side.
func (r *Resolver) bounds() Box {
	return Box{MinX: -1, MinY: -1, MaxX: float64(r.field.Width() + 1), MaxY: float64(r.field.Height() + 1)}
}

// clipSegment clips a-b to box (Liang-Barsky). ok is false when the
// segment misses the box entirely.
func clipSegment(a, b Vec2, box Box) (Vec2, Vec2, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := b.X-a.X, b.Y-a.Y
	for _, e := range [4][2]float64{
		{-dx, a.X - box.MinX},
		{dx, box.MaxX - a.X},
		{-dy, a.Y - box.MinY},
		{dy, box.MaxY - a.Y},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = min(t1, t)
		}
	}
	return lerp(a, b, t0), lerp(a, b, t1), true
}

func lerp(a, b Vec2, t float64) Vec2 {
	return a.Scale(1 - t).Add(b.Scale(t))
}

// walk visits the cells of the segment step by step. visit receives every
// cell entered at that step (one, or three on a diagonal move) and the cell
// occupied before the step; returning false stops the walk. Segments longer
// than maxWalk are clipped to bounds first.
func walk(start, end Vec2, bounds Box, visit func(step int, cells []cellRef, prev cellRef) bool) {
	if !start.finite() || !end.finite() {
		return
	}
	if math.Abs(end.X-start.X) > maxWalk || math.Abs(end.Y-start.Y) > maxWalk {
		var ok bool
		if start, end, ok = clipSegment(start, end, bounds); !ok {
			return
		}
		// Spans near the float limit overflow the clip arithmetic.
		if math.Abs(end.X-start.X) > maxWalk || math.Abs(end.Y-start.Y) > maxWalk {
			return
		}
	}
	x0, y0 := start.cell()
	x1, y1 := end.cell()

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	err := dx + dy

	ref := func(col, row int) cellRef {
		ddx, ddy := col-x0, row-y0
		return cellRef{col: col, row: row, d2: ddx*ddx + ddy*ddy}
	}

	x, y := x0, y0
	cur := ref(x, y)
	buf := make([]cellRef, 0, 3)
	if !visit(0, append(buf[:0], cur), cur) {
		return
	}
	for step := 1; x != x1 || y != y1; step++ {
		e2 := 2 * err
		moveX := e2 >= dy
		moveY := e2 <= dx
		cells := buf[:0]
		switch {
		case moveX && moveY:
			err += dy + dx
			cells = append(cells, ref(x+sx, y), ref(x, y+sy), ref(x+sx, y+sy))
			x += sx
			y += sy
		case moveX:
			err += dy
			x += sx
			cells = append(cells, ref(x, y))
		default:
			err += dx
			y += sy
			cells = append(cells, ref(x, y))
		}
		if !visit(step, cells, cur) {
			return
		}
		cur = ref(x, y)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Penetration is how far a box has to rise so its bottom rests on the
// highest solid sample it overlaps.
type Penetration struct {
	Depth float64
	Col   int
	Row   int
}

// BoundsVsTerrain tests the box of half extents (hw, hh) centered on pos
// against the field. It reports false when the box overlaps no solid sample.
func (r *Resolver) BoundsVsTerrain(pos Vec2, hw, hh float64) (Penetration, bool) {
	box := BoxAt(pos, hw, hh)
	if !pos.finite() {
		return Penetration{}, false
	}
	c0, c1 := box.cols()
	r0, r1 := box.rows()
	if c0 < 0 {
		c0 = 0
	}
	if c1 > r.field.Width()-1 {
		c1 = r.field.Width() - 1
	}

	var (
		pen   Penetration
		found bool
	)
	for col := c0; col <= c1; col++ {
		top := r.field.HeightAt(col)
		hi := r1
		if hi > top {
			hi = top
		}
		for row := hi; row >= r0 && row >= 0; row-- {
			if !r.field.IsSolid(col, row) {
				continue
			}
			depth := float64(row+1) - box.MinY
			if !found || depth > pen.Depth {
				pen = Penetration{Depth: depth, Col: col, Row: row}
				found = true
			}
			break
		}
	}
	return pen, found
}

// Supported reports whether any solid sample lies under the feet of the box
// within tolerance. A false result means the entity should fall.
func (r *Resolver) Supported(pos Vec2, hw, hh, tolerance float64) bool {
	if !pos.finite() {
		return false
	}
	box := BoxAt(pos, hw, hh)
	c0, c1 := box.cols()
	lo := int(math.Floor(box.MinY - tolerance))
	hi := int(math.Ceil(box.MinY)) - 1
	for col := c0; col <= c1; col++ {
		for row := lo; row <= hi; row++ {
			if r.field.IsSolid(col, row) {
				return true
			}
		}
	}
	return false
}
