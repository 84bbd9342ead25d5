package terrain

import "math"

// Carve clears every sample whose cell square [col,col+1]x[row,row+1]
// touches the closed disc of the given radius around (cx, cy) and returns
// how many samples went from solid to empty. The disc is clipped to the field; clearing an empty sample is a
// no-op, so repeating a carve removes nothing. A zero radius clears the
// sample containing the center. Negative or NaN input clears nothing.
func (f *Field) Carve(cx, cy, radius float64) int {
	if math.IsNaN(cx) || math.IsNaN(cy) || math.IsNaN(radius) || radius < 0 {
		return 0
	}
	if radius == 0 {
		col, row := int(math.Floor(cx)), int(math.Floor(cy))
		if f.clear(col, row) {
			f.settleTop(col)
			return 1
		}
		return 0
	}

	c0 := int(math.Ceil(cx - radius - 1))
	c1 := int(math.Floor(cx + radius))
	if c0 < 0 {
		c0 = 0
	}
	if c1 > f.width-1 {
		c1 = f.width - 1
	}

	r2 := radius * radius
	removed := 0
	for col := c0; col <= c1; col++ {
		// Distance from the center to the nearest x of the cell.
		dx := max(float64(col)-cx, cx-float64(col+1), 0)
		span := r2 - dx*dx
		if span < 0 {
			continue
		}
		dy := math.Sqrt(span)
		lo := int(math.Ceil(cy - dy - 1))
		hi := int(math.Floor(cy + dy))
		if lo < 0 {
			lo = 0
		}
		if hi > f.height-1 {
			hi = f.height - 1
		}
		// Only rows at or below the column top can be solid.
		if hi > f.top[col] {
			hi = f.top[col]
		}
		cleared := 0
		for row := lo; row <= hi; row++ {
			if f.clear(col, row) {
				cleared++
			}
		}
		if cleared > 0 {
			removed += cleared
			f.settleTop(col)
		}
	}
	return removed
}

// clear empties one sample and reports whether it was solid.
func (f *Field) clear(col, row int) bool {
	if !f.InBounds(col, row) {
		return false
	}
	i := col*f.height + row
	if f.samples[i] != sampleSolid {
		return false
	}
	f.samples[i] = sampleEmpty
	f.solid--
	f.diff = append(f.diff, Sample{Col: col, Row: row})
	return true
}

// settleTop walks the column top down to the next solid sample.
func (f *Field) settleTop(col int) {
	base := col * f.height
	r := f.top[col]
	for r >= 0 && f.samples[base+r] != sampleSolid {
		r--
	}
	f.top[col] = r
}
