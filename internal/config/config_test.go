package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
[simulation]
tick_rate = "20ms"
seed = 42

[physics]
gravity = -9.5
`))
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, cfg.Simulation.TickRate)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.Equal(t, -9.5, cfg.Physics.Gravity)
	assert.Equal(t, Defaults().Physics.TerminalVelocity, cfg.Physics.TerminalVelocity)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestParse_RejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"upward gravity": "[physics]\ngravity = 5.0\n",
		"zero tick":      "[simulation]\ntick_rate = \"0s\"\n",
		"no workers":     "[combat]\ntargeting_workers = 0\n",
		"empty terrain":  "[terrain]\nwidth = 0\n",
		"zero tolerance": "[physics]\nground_tolerance = 0.0\n",
		"negative ticks": "[simulation]\nmax_ticks = -1\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("[simulation\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nformat = \"json\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.NotZero(t, cfg.Simulation.StartTime)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestUptime(t *testing.T) {
	var sc SimulationConfig
	assert.Zero(t, sc.Uptime(time.Now()), "never loaded")

	sc.StartTime = 1_700_000_000
	now := time.Unix(1_700_000_090, 500_000_000)
	assert.Equal(t, 90*time.Second, sc.Uptime(now))
}

func TestShippedConfigLoads(t *testing.T) {
	_, err := Load(filepath.Join("..", "..", "config", "sim.toml"))
	require.NoError(t, err)
}
