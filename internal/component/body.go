package component

// Pure data, zero methods beyond enum names: all mutations happen in
// System functions.

// Position is the center of the entity's box in field coordinates.
type Position struct {
	X float64
	Y float64
}

// Velocity in samples per second. Positive Y is up.
type Velocity struct {
	X float64
	Y float64
}

// Extent holds half the box size around Position. The feet sit at Y-HalfH.
type Extent struct {
	HalfW float64
	HalfH float64
}

type Health struct {
	Current float64
	Max     float64
}

// Walk drives a grounded unit sideways. Sign of Speed is the direction.
type Walk struct {
	Speed float64 // samples/s
}

type Team uint8

const (
	TeamAlly Team = iota + 1
	TeamEnemy
)

func (t Team) String() string {
	switch t {
	case TeamAlly:
		return "ally"
	case TeamEnemy:
		return "enemy"
	}
	return "none"
}

// Opposes reports whether two teams fight each other.
func (t Team) Opposes(o Team) bool {
	return t != 0 && o != 0 && t != o
}

// ParseTeam maps a level file team name.
func ParseTeam(s string) (Team, bool) {
	switch s {
	case "ally":
		return TeamAlly, true
	case "enemy":
		return TeamEnemy, true
	}
	return 0, false
}

type Kind uint8

const (
	KindUnit Kind = iota + 1
	KindProjectile
	KindTurret
	KindStructure
)

var kindNames = [...]string{"none", "unit", "projectile", "turret", "structure"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "none"
}

// MotionState is the movement state machine of units and projectiles.
type MotionState uint8

const (
	Grounded MotionState = iota
	Airborne
	Destroyed
)

var motionNames = [...]string{"grounded", "airborne", "destroyed"}

func (m MotionState) String() string {
	if int(m) < len(motionNames) {
		return motionNames[m]
	}
	return "unknown"
}

type Motion struct {
	State MotionState
}
