package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput   Phase = iota // 0: apply queued intents
	PhasePhysics              // 1: integrate movers, resolve against terrain, record impacts
	PhaseImpact               // 2: carve craters, apply splash damage
	PhaseCombat               // 3: turret targeting and firing
	PhaseCommit               // 4: despawn queued entities, then spawn queued ones
	PhaseOutput               // 5: snapshot + notification dispatch
)

var phaseNames = [...]string{"input", "physics", "impact", "combat", "commit", "output"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
