package collision

import (
	"cmp"
	"math"
	"slices"

	"github.com/craterline/sim/internal/core/ecs"
)

// Grid is a cell-based broadphase over entity boxes. Cells are gridCell
// samples square; an entity is listed in every cell its box touches.
// Rebuilt once per tick from a stable entity set and read-only afterwards.
const gridCell = 8

type gridKey struct {
	cx int32
	cy int32
}

func toGridCoord(v float64) int32 {
	return int32(math.Floor(v / gridCell))
}

// GridEntry is one entity registered in the grid.
type GridEntry struct {
	ID  ecs.EntityID
	Box Box
}

// Grid tracks which entities overlap which cells.
type Grid struct {
	cells   map[gridKey][]int
	entries []GridEntry
}

func NewGrid() *Grid {
	return &Grid{
		cells: make(map[gridKey][]int),
	}
}

// Reset empties the grid, keeping its allocations.
func (g *Grid) Reset() {
	clear(g.cells)
	g.entries = g.entries[:0]
}

// Insert registers an entity box. Insert in ascending id order so Query
// results need no further sorting in the common case.
func (g *Grid) Insert(id ecs.EntityID, box Box) {
	idx := len(g.entries)
	g.entries = append(g.entries, GridEntry{ID: id, Box: box})
	x0, x1 := toGridCoord(box.MinX), toGridCoord(box.MaxX)
	y0, y1 := toGridCoord(box.MinY), toGridCoord(box.MaxY)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			k := gridKey{cx: cx, cy: cy}
			g.cells[k] = append(g.cells[k], idx)
		}
	}
}

// Len returns the number of registered entities.
func (g *Grid) Len() int { return len(g.entries) }

// Query returns every entry whose box overlaps box, sorted by id.
func (g *Grid) Query(box Box) []GridEntry {
	var out []GridEntry
	seen := make(map[int]struct{})
	x0, x1 := toGridCoord(box.MinX), toGridCoord(box.MaxX)
	y0, y1 := toGridCoord(box.MinY), toGridCoord(box.MaxY)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			for _, idx := range g.cells[gridKey{cx: cx, cy: cy}] {
				if _, dup := seen[idx]; dup {
					continue
				}
				seen[idx] = struct{}{}
				if e := g.entries[idx]; e.Box.Overlaps(box) {
					out = append(out, e)
				}
			}
		}
	}
	slices.SortFunc(out, byID)
	return out
}

// atCell returns the entries whose boxes overlap sample (col,row), in
// ascending id order.
func (g *Grid) atCell(col, row int) []GridEntry {
	k := gridKey{cx: toGridCoord(float64(col)), cy: toGridCoord(float64(row))}
	var out []GridEntry
	for _, idx := range g.cells[k] {
		if e := g.entries[idx]; e.Box.overlapsCell(col, row) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, byID)
	return out
}

func byID(a, b GridEntry) int { return cmp.Compare(a.ID, b.ID) }
