package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidLevel marks level data the simulation refuses to start with.
var ErrInvalidLevel = errors.New("invalid level")

// Team names accepted in level files.
const (
	TeamAlly  = "ally"
	TeamEnemy = "enemy"
)

// WeaponDef describes the projectile a turret fires.
type WeaponDef struct {
	Name         string        `yaml:"name"`
	Damage       float64       `yaml:"damage"`
	CraterRadius float64       `yaml:"crater_radius"` // 0 = derived from damage by the crater formula
	HalfSize     float64       `yaml:"half_size"`     // projectile box half extent
	MaxAge       time.Duration `yaml:"max_age"`       // 0 = lives until it leaves the field
}

// ArmamentDef is a firing profile: the weapon and how it is aimed.
// Turrets carry one inline; armed unit templates carry one under armament.
type ArmamentDef struct {
	Weapon         string        `yaml:"weapon"`
	Range          float64       `yaml:"range"`
	MinRange       float64       `yaml:"min_range"`
	Reload         time.Duration `yaml:"reload"`
	FlightTime     time.Duration `yaml:"flight_time"`
	MaxLaunchSpeed float64       `yaml:"max_launch_speed"` // 0 = unlimited
	Spread         float64       `yaml:"spread"`           // max random velocity offset, samples/s
	Muzzle         float64       `yaml:"muzzle"`           // spawn height above the box top
}

// UnitTemplate describes a unit that can be placed by intent, by a spawner
// or by the level.
type UnitTemplate struct {
	Name       string       `yaml:"name"`
	Team       string       `yaml:"team"`
	Health     float64      `yaml:"health"`
	HalfWidth  float64      `yaml:"half_width"`
	HalfHeight float64      `yaml:"half_height"`
	WalkSpeed  float64      `yaml:"walk_speed"` // samples/s, sign picks the direction
	Armament   *ArmamentDef `yaml:"armament"`   // nil = unarmed
}

// TurretDef places one turret at level start.
type TurretDef struct {
	Name           string        `yaml:"name"`
	Team           string        `yaml:"team"`
	Column         int           `yaml:"column"`
	Health         float64       `yaml:"health"`
	HalfWidth      float64       `yaml:"half_width"`
	HalfHeight     float64       `yaml:"half_height"`
	Weapon         string        `yaml:"weapon"`
	Range          float64       `yaml:"range"`
	MinRange       float64       `yaml:"min_range"`
	Reload         time.Duration `yaml:"reload"`
	FlightTime     time.Duration `yaml:"flight_time"`
	MaxLaunchSpeed float64       `yaml:"max_launch_speed"` // 0 = unlimited
	Spread         float64       `yaml:"spread"`           // max random velocity offset, samples/s
}

// Armament returns the turret's firing profile. The muzzle height of
// turrets comes from the combat config.
func (t TurretDef) Armament() ArmamentDef {
	return ArmamentDef{
		Weapon:         t.Weapon,
		Range:          t.Range,
		MinRange:       t.MinRange,
		Reload:         t.Reload,
		FlightTime:     t.FlightTime,
		MaxLaunchSpeed: t.MaxLaunchSpeed,
		Spread:         t.Spread,
	}
}

// StructureDef places a static structure: it has health and a box but
// never moves.
type StructureDef struct {
	Name       string  `yaml:"name"`
	Team       string  `yaml:"team"`
	Column     int     `yaml:"column"`
	Health     float64 `yaml:"health"`
	HalfWidth  float64 `yaml:"half_width"`
	HalfHeight float64 `yaml:"half_height"`
}

// Placement puts a unit template on a column at level start.
type Placement struct {
	Template string `yaml:"template"`
	Column   int    `yaml:"column"`
}

// SpawnerDef places a unit template on Column every Interval, the first
// one Interval after the level starts.
type SpawnerDef struct {
	Name     string        `yaml:"name"`
	Template string        `yaml:"template"`
	Column   int           `yaml:"column"`
	Interval time.Duration `yaml:"interval"`
	Limit    int           `yaml:"limit"` // 0 = unlimited
}

// TerrainDef names the level's mask. An empty Mask means generated hills.
type TerrainDef struct {
	Mask   string `yaml:"mask"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Level is one battlefield, loaded from a YAML file.
type Level struct {
	Name       string         `yaml:"name"`
	Terrain    TerrainDef     `yaml:"terrain"`
	Weapons    []WeaponDef    `yaml:"weapons"`
	Units      []UnitTemplate `yaml:"units"`
	Turrets    []TurretDef    `yaml:"turrets"`
	Structures []StructureDef `yaml:"structures"`
	Placements []Placement    `yaml:"placements"`
	Spawners   []SpawnerDef   `yaml:"spawners"`

	weapons   map[string]*WeaponDef
	templates map[string]*UnitTemplate
}

// LoadLevel reads and validates a level file. A relative mask path is
// resolved against the level file's directory.
func LoadLevel(path string) (*Level, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", path, err)
	}
	lvl, err := ParseLevel(raw)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	if lvl.Terrain.Mask != "" && !filepath.IsAbs(lvl.Terrain.Mask) {
		lvl.Terrain.Mask = filepath.Join(filepath.Dir(path), lvl.Terrain.Mask)
	}
	return lvl, nil
}

// ParseLevel decodes and validates level YAML.
func ParseLevel(raw []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(raw, &lvl); err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}
	if err := lvl.index(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// NewLevel indexes and validates a level built in code.
func NewLevel(l Level) (*Level, error) {
	if err := l.index(); err != nil {
		return nil, err
	}
	return &l, nil
}

func (l *Level) index() error {
	l.weapons = make(map[string]*WeaponDef, len(l.Weapons))
	l.templates = make(map[string]*UnitTemplate, len(l.Units))
	for i := range l.Weapons {
		l.weapons[l.Weapons[i].Name] = &l.Weapons[i]
	}
	for i := range l.Units {
		l.templates[l.Units[i].Name] = &l.Units[i]
	}
	return l.Validate()
}

// Weapon looks up a weapon by name.
func (l *Level) Weapon(name string) (*WeaponDef, bool) {
	w, ok := l.weapons[name]
	return w, ok
}

// Template looks up a unit template by name.
func (l *Level) Template(name string) (*UnitTemplate, bool) {
	t, ok := l.templates[name]
	return t, ok
}

// Validate reports every malformed entry, each wrapped in ErrInvalidLevel.
func (l *Level) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidLevel}, args...)...))
	}
	validTeam := func(t string) bool { return t == TeamAlly || t == TeamEnemy }

	if l.Terrain.Width < 0 || l.Terrain.Height < 0 {
		bad("terrain size %dx%d", l.Terrain.Width, l.Terrain.Height)
	}

	seen := make(map[string]bool, len(l.Weapons))
	for _, w := range l.Weapons {
		switch {
		case w.Name == "":
			bad("weapon without a name")
		case seen[w.Name]:
			bad("weapon %q defined twice", w.Name)
		}
		seen[w.Name] = true
		if w.Damage < 0 {
			bad("weapon %q: negative damage %g", w.Name, w.Damage)
		}
		if w.CraterRadius < 0 {
			bad("weapon %q: negative crater radius %g", w.Name, w.CraterRadius)
		}
		if w.HalfSize < 0 || w.MaxAge < 0 {
			bad("weapon %q: negative size or age", w.Name)
		}
	}

	seen = make(map[string]bool, len(l.Units))
	for _, u := range l.Units {
		switch {
		case u.Name == "":
			bad("unit template without a name")
		case seen[u.Name]:
			bad("unit template %q defined twice", u.Name)
		}
		seen[u.Name] = true
		if !validTeam(u.Team) {
			bad("unit %q: unknown team %q", u.Name, u.Team)
		}
		if u.Health <= 0 {
			bad("unit %q: health must be positive, got %g", u.Name, u.Health)
		}
		if u.HalfWidth <= 0 || u.HalfHeight <= 0 {
			bad("unit %q: extent must be positive", u.Name)
		}
		if u.Armament != nil {
			l.checkArmament("unit "+u.Name, *u.Armament, bad)
		}
	}

	for i, t := range l.Turrets {
		name := t.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if !validTeam(t.Team) {
			bad("turret %s: unknown team %q", name, t.Team)
		}
		l.checkArmament("turret "+name, t.Armament(), bad)
		if t.Health <= 0 || t.HalfWidth <= 0 || t.HalfHeight <= 0 {
			bad("turret %s: health and extent must be positive", name)
		}
	}

	for i, s := range l.Structures {
		if !validTeam(s.Team) {
			bad("structure #%d: unknown team %q", i, s.Team)
		}
		if s.Health <= 0 || s.HalfWidth <= 0 || s.HalfHeight <= 0 {
			bad("structure #%d: health and extent must be positive", i)
		}
	}

	for i, p := range l.Placements {
		if _, ok := l.templates[p.Template]; !ok {
			bad("placement #%d: unknown unit template %q", i, p.Template)
		}
	}

	for i, sp := range l.Spawners {
		name := sp.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if _, ok := l.templates[sp.Template]; !ok {
			bad("spawner %s: unknown unit template %q", name, sp.Template)
		}
		if sp.Interval <= 0 {
			bad("spawner %s: interval must be positive, got %s", name, sp.Interval)
		}
		if sp.Limit < 0 {
			bad("spawner %s: negative limit %d", name, sp.Limit)
		}
	}
	return errors.Join(errs...)
}

func (l *Level) checkArmament(owner string, a ArmamentDef, bad func(string, ...any)) {
	if _, ok := l.weapons[a.Weapon]; !ok {
		bad("%s: unknown weapon %q", owner, a.Weapon)
	}
	if a.Reload <= 0 {
		bad("%s: reload must be positive, got %s", owner, a.Reload)
	}
	if a.Range <= 0 {
		bad("%s: range must be positive, got %g", owner, a.Range)
	}
	if a.MinRange < 0 || a.MinRange > a.Range {
		bad("%s: min range %g outside [0, %g]", owner, a.MinRange, a.Range)
	}
	if a.FlightTime <= 0 {
		bad("%s: flight time must be positive, got %s", owner, a.FlightTime)
	}
	if a.MaxLaunchSpeed < 0 || a.Spread < 0 {
		bad("%s: negative launch speed or spread", owner)
	}
	if a.Muzzle < 0 {
		bad("%s: negative muzzle height %g", owner, a.Muzzle)
	}
}
