package collision

import "github.com/craterline/sim/internal/core/ecs"

// SweepHit is the outcome of a projectile sweep. Entity is zero for a
// terrain hit.
type SweepHit struct {
	Hit
	Entity ecs.EntityID
}

// SweepProjectile walks the same cells as SegmentVsTerrain and also tests
// the entity boxes in grid. The earliest step wins, so nothing past a
// terrain impact can be hit. On a shared step an entity beats terrain, and
// among entities the lowest id wins. skip filters out entities that cannot
// be hit (the shooter, its team); it may be nil.
func (r *Resolver) SweepProjectile(start, end Vec2, grid *Grid, skip func(ecs.EntityID) bool) (SweepHit, bool) {
	var (
		out   SweepHit
		found bool
	)
	walk(start, end, r.bounds(), func(step int, cells []cellRef, prev cellRef) bool {
		if grid != nil && grid.Len() > 0 {
			var (
				best   ecs.EntityID
				bestAt cellRef
			)
			for _, c := range cells {
				for _, e := range grid.atCell(c.col, c.row) {
					if skip != nil && skip(e.ID) {
						continue
					}
					if best.IsZero() || e.ID < best {
						best, bestAt = e.ID, c
					}
					break
				}
			}
			if !best.IsZero() {
				out = SweepHit{
					Hit:    Hit{Col: bestAt.col, Row: bestAt.row, Point: cellCenter(bestAt.col, bestAt.row), Step: step, Prev: cellCenter(prev.col, prev.row)},
					Entity: best,
				}
				found = true
				return false
			}
		}

		bi := -1
		for i, c := range cells {
			if r.field.IsSolid(c.col, c.row) && (bi < 0 || c.before(cells[bi])) {
				bi = i
			}
		}
		if bi < 0 {
			return true
		}
		c := cells[bi]
		out = SweepHit{Hit: Hit{Col: c.col, Row: c.row, Point: cellCenter(c.col, c.row), Step: step, Prev: cellCenter(prev.col, prev.row)}}
		found = true
		return false
	})
	return out, found
}
