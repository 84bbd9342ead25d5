package system

import (
	"fmt"

	"github.com/craterline/sim/internal/component"
	"github.com/craterline/sim/internal/core/ecs"
	"github.com/craterline/sim/internal/data"
	"github.com/craterline/sim/internal/world"
)

// Mount builds the weapon mount for a firing profile. Turrets and armed
// units carry the same component, so both go through CombatSystem.
func Mount(lvl *data.Level, a data.ArmamentDef, muzzle float64) (component.Turret, error) {
	w, ok := lvl.Weapon(a.Weapon)
	if !ok {
		return component.Turret{}, fmt.Errorf("unknown weapon %q", a.Weapon)
	}
	return component.Turret{
		Range:          a.Range,
		MinRange:       a.MinRange,
		Reload:         a.Reload,
		FlightTime:     a.FlightTime,
		MaxLaunchSpeed: a.MaxLaunchSpeed,
		Spread:         a.Spread,
		Muzzle:         muzzle,
		Weapon: component.Weapon{
			Name:         w.Name,
			Damage:       w.Damage,
			CraterRadius: w.CraterRadius,
			HalfSize:     w.HalfSize,
			MaxAge:       w.MaxAge,
		},
	}, nil
}

// AttachTemplate gives id the components of a unit built from tmpl,
// standing on column col. An armed template also gets its weapon mount,
// loaded and ready to fire.
func AttachTemplate(st *world.State, lvl *data.Level, id ecs.EntityID, col int, tmpl *data.UnitTemplate) error {
	team, _ := component.ParseTeam(tmpl.Team)
	st.AttachUnit(id, col, world.BodySpec{
		Team: team, Health: tmpl.Health, HalfW: tmpl.HalfWidth, HalfH: tmpl.HalfHeight,
	}, tmpl.WalkSpeed)
	if tmpl.Armament == nil {
		return nil
	}
	m, err := Mount(lvl, *tmpl.Armament, tmpl.Armament.Muzzle)
	if err != nil {
		return fmt.Errorf("unit %s: %w", tmpl.Name, err)
	}
	st.AttachArmament(id, m)
	return nil
}

// queueTemplate defers AttachTemplate to the next commit. The level is
// validated, so the mount's weapon always resolves.
func queueTemplate(st *world.State, lvl *data.Level, col int, tmpl *data.UnitTemplate) {
	st.ECS.QueueSpawn(func(id ecs.EntityID) {
		_ = AttachTemplate(st, lvl, id, col, tmpl)
	})
}
