package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/core/ecs"
	coresys "github.com/citysim/citysim/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Phase 3 (Cleanup).
type CleanupSystem struct {
	coresys.NoRender
	world *ecs.World
	log   *zap.Logger
}

func NewCleanupSystem(world *ecs.World, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: world, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

// Mask matches nothing the runner can dispatch: the work happens in EndTick.
func (s *CleanupSystem) Mask() ecs.Mask { return coresys.MaskNone }

func (s *CleanupSystem) TickEntity(ecs.EntityID, time.Duration) {}

func (s *CleanupSystem) BeginTick(time.Duration) {}

func (s *CleanupSystem) EndTick(time.Duration) {
	if n := s.world.FlushDestroyQueue(); n > 0 {
		s.log.Debug("destroyed entities", zap.Int("count", n))
	}
}
