package system

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	coresys "github.com/craterline/sim/internal/core/system"
	"github.com/craterline/sim/internal/world"
)

// CommitSystem applies the tick's structural changes. Phase 4 (Commit).
// Despawns flush before spawns so freed indices are reused by the new
// entities.
type CommitSystem struct {
	state *world.State
	debug bool
	log   *zap.Logger
}

func NewCommitSystem(state *world.State, debug bool, log *zap.Logger) *CommitSystem {
	return &CommitSystem{state: state, debug: debug, log: log}
}

func (s *CommitSystem) Phase() coresys.Phase { return coresys.PhaseCommit }

func (s *CommitSystem) Update(_ time.Duration) {
	st := s.state
	destroyed := st.ECS.FlushDestroyQueue()
	spawned := st.ECS.FlushSpawnQueue()
	st.Impacts = st.Impacts[:0]
	st.Tick++

	if destroyed > 0 || len(spawned) > 0 {
		s.log.Debug("commit",
			zap.Uint64("tick", st.Tick),
			zap.Int("destroyed", destroyed),
			zap.Int("spawned", len(spawned)),
		)
	}
	if s.debug {
		if err := CheckInvariants(st); err != nil {
			panic(fmt.Sprintf("tick %d: %v", st.Tick, err))
		}
	}
}
