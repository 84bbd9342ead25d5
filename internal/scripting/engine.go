package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for combat formulas.
// Single-goroutine access only (simulation loop). Every formula has a Go
// fallback, so a missing script or a script error never stops a tick.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	// Load core scripts first, then feature scripts
	for _, sub := range []string{"core", "combat"} {
		p := filepath.Join(scriptsDir, sub)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}

	return e, nil
}

// NewEngineFromSource builds an engine from an in-memory chunk. Used by tests
// and by levels that embed their formulas.
func NewEngineFromSource(src string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	if err := vm.DoString(src); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load inline script: %w", err)
	}
	return &Engine{vm: vm, log: log}, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// ImpactContext holds pre-packed data for a crater calculation.
type ImpactContext struct {
	Damage float64
	Speed  float64 // projectile speed at impact
	Direct bool    // the projectile struck an entity box
}

// CraterRadius calls the Lua crater_radius function. The result is never
// negative; a nil engine or a script failure falls back to DefaultCraterRadius.
func (e *Engine) CraterRadius(ctx ImpactContext) float64 {
	if e == nil {
		return DefaultCraterRadius(ctx.Damage)
	}
	fn := e.vm.GetGlobal("crater_radius")
	if fn == lua.LNil {
		return DefaultCraterRadius(ctx.Damage)
	}

	t := e.vm.NewTable()
	t.RawSetString("damage", lua.LNumber(ctx.Damage))
	t.RawSetString("speed", lua.LNumber(ctx.Speed))
	t.RawSetString("direct", lua.LBool(ctx.Direct))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua crater_radius error", zap.Error(err))
		return DefaultCraterRadius(ctx.Damage)
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	r := float64(lua.LVAsNumber(result))
	if math.IsNaN(r) || r < 0 {
		e.log.Warn("lua crater_radius returned invalid radius", zap.Float64("radius", r))
		return DefaultCraterRadius(ctx.Damage)
	}
	return r
}

// SplashScale calls the Lua splash_scale function with the distance from the
// impact center and the crater radius. The result is clamped to [0,1].
func (e *Engine) SplashScale(dist, radius float64) float64 {
	if e == nil {
		return DefaultSplashScale(dist, radius)
	}
	fn := e.vm.GetGlobal("splash_scale")
	if fn == lua.LNil {
		return DefaultSplashScale(dist, radius)
	}
	v, err := e.callNumber(fn, dist, radius)
	if err != nil {
		e.log.Error("lua splash_scale error", zap.Error(err))
		return DefaultSplashScale(dist, radius)
	}
	if math.IsNaN(v) {
		return DefaultSplashScale(dist, radius)
	}
	return clamp01(v)
}

// DefaultCraterRadius grows the crater with damage, one sample per six
// points, between 1 and 16 samples.
func DefaultCraterRadius(damage float64) float64 {
	if damage <= 0 || math.IsNaN(damage) {
		return 0
	}
	return math.Min(16, math.Max(1, damage/6))
}

// DefaultSplashScale is linear falloff: full damage at the center, zero at
// the crater edge. A zero radius only scales a direct center hit.
func DefaultSplashScale(dist, radius float64) float64 {
	if radius <= 0 {
		if dist <= 0 {
			return 1
		}
		return 0
	}
	return clamp01(1 - dist/radius)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

// callNumber calls a Lua function with number args and returns a number.
func (e *Engine) callNumber(fn lua.LValue, args ...float64) (float64, error) {
	lArgs := make([]lua.LValue, len(args))
	for i, a := range args {
		lArgs[i] = lua.LNumber(a)
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lArgs...); err != nil {
		return 0, err
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	n, ok := result.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("returned %s, want number", result.Type())
	}
	return float64(n), nil
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.vm.Close()
}
