package event

import "github.com/craterline/sim/internal/core/ecs"

// Notifications for external collaborators (audio, scoring, UI). All carry
// the tick they were produced in.

// TerrainDestroyed fires once per crater that removed at least one sample.
type TerrainDestroyed struct {
	Tick    uint64
	X, Y    float64
	Radius  float64
	Removed int
	Source  ecs.EntityID
}

// ProjectileFired fires when a turret or an armed unit launches. The
// projectile itself only receives an id at commit, so the event names the
// shooter and its target.
type ProjectileFired struct {
	Tick   uint64
	Turret ecs.EntityID // the shooter
	Target ecs.EntityID
	X, Y   float64
	VX, VY float64
	Damage float64
}

// UnitDamaged fires for every entity that lost health to an impact.
type UnitDamaged struct {
	Tick      uint64
	Entity    ecs.EntityID
	Amount    float64
	Remaining float64
	Source    ecs.EntityID
}

// UnitKilled fires when damage drops an entity to zero or below.
type UnitKilled struct {
	Tick   uint64
	Entity ecs.EntityID
	Source ecs.EntityID
}

// UnitPlaced fires when a place-unit intent or a level spawner queued a
// unit. Spawner is empty for intents.
type UnitPlaced struct {
	Tick     uint64
	Column   int
	Template string
	Spawner  string
}
