package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r recorder) Phase() Phase { return r.phase }
func (r recorder) Update(time.Duration) {
	*r.log = append(*r.log, r.name)
}

func TestRunner_TickRunsPhasesInOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"commit", PhaseCommit, &log})
	r.Register(recorder{"combat", PhaseCombat, &log})
	r.Register(recorder{"physics", PhasePhysics, &log})
	r.Register(recorder{"impact", PhaseImpact, &log})
	r.Register(recorder{"input", PhaseInput, &log})
	r.Register(recorder{"output", PhaseOutput, &log})

	r.Tick(time.Second / 60)
	assert.Equal(t, []string{"input", "physics", "impact", "combat", "commit", "output"}, log)
}

func TestRunner_SamePhaseKeepsRegistrationOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"b", PhaseCombat, &log})
	r.Register(recorder{"a", PhaseImpact, &log})
	r.Register(recorder{"c", PhaseCombat, &log})

	r.Tick(0)
	assert.Equal(t, []string{"a", "b", "c"}, log)
}

func TestRunner_TickPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"physics", PhasePhysics, &log})
	r.Register(recorder{"input", PhaseInput, &log})

	r.TickPhase(PhaseInput, 0)
	assert.Equal(t, []string{"input"}, log)
	assert.Equal(t, "impact", PhaseImpact.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

func TestRunner_TickAfter(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"output", PhaseOutput, &log})
	r.Register(recorder{"input", PhaseInput, &log})
	r.Register(recorder{"physics", PhasePhysics, &log})

	r.TickAfter(PhaseInput, 0)
	assert.Equal(t, []string{"physics", "output"}, log)
}
