package component

import (
	"time"

	"github.com/craterline/sim/internal/core/ecs"
)

// Weapon is the projectile profile a turret fires.
type Weapon struct {
	Name         string
	Damage       float64
	CraterRadius float64 // 0 = from the crater formula
	HalfSize     float64
	MaxAge       time.Duration // 0 = unlimited
}

// Turret fires at the nearest visible opposing entity in range.
type Turret struct {
	Range          float64
	MinRange       float64
	Reload         time.Duration
	ReloadTimer    time.Duration // fires when <= 0
	FlightTime     time.Duration
	MaxLaunchSpeed float64 // 0 = unlimited
	Spread         float64
	Muzzle         float64 // spawn height above the box top
	Weapon         Weapon

	Target ecs.EntityID // weak: re-resolved every tick, zero = none
}

// Projectile is one-shot: the first impact schedules its despawn.
type Projectile struct {
	Damage       float64
	CraterRadius float64
	Age          time.Duration
	MaxAge       time.Duration

	Source     ecs.EntityID // weak
	SourceTeam Team
}
