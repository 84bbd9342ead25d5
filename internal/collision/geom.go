package collision

import "math"

// Vec2 is a point or displacement in field coordinates. One unit is one
// terrain sample; y grows upward.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2        { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2        { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2   { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) Len() float64           { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64    { return v.Sub(o).Len() }
func (v Vec2) finite() bool           { return !math.IsNaN(v.X+v.Y) && !math.IsInf(v.X+v.Y, 0) }
func (v Vec2) cell() (col, row int)   { return int(math.Floor(v.X)), int(math.Floor(v.Y)) }
func cellCenter(col, row int) Vec2    { return Vec2{float64(col) + 0.5, float64(row) + 0.5} }

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// BoxAt builds the box of half extents (hw, hh) centered on pos.
func BoxAt(pos Vec2, hw, hh float64) Box {
	return Box{MinX: pos.X - hw, MinY: pos.Y - hh, MaxX: pos.X + hw, MaxY: pos.Y + hh}
}

// Overlaps reports whether the boxes share any area or edge.
func (b Box) Overlaps(o Box) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// overlapsCell reports whether the box shares area with sample (col,row).
// Edge contact does not count.
func (b Box) overlapsCell(col, row int) bool {
	x, y := float64(col), float64(row)
	return b.MinX < x+1 && x < b.MaxX && b.MinY < y+1 && y < b.MaxY
}

// ClosestDist returns the distance from p to the nearest point of the box,
// zero when p is inside.
func (b Box) ClosestDist(p Vec2) float64 {
	dx := math.Max(0, math.Max(b.MinX-p.X, p.X-b.MaxX))
	dy := math.Max(0, math.Max(b.MinY-p.Y, p.Y-b.MaxY))
	return math.Hypot(dx, dy)
}

// cols returns the inclusive range of columns whose samples the box covers.
func (b Box) cols() (int, int) {
	return int(math.Floor(b.MinX)), int(math.Ceil(b.MaxX)) - 1
}

// rows returns the inclusive range of rows whose samples the box covers.
func (b Box) rows() (int, int) {
	return int(math.Floor(b.MinY)), int(math.Ceil(b.MaxY)) - 1
}
