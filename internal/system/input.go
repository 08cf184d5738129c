package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/component"
	"github.com/citysim/citysim/internal/core/ecs"
	coresys "github.com/citysim/citysim/internal/core/system"
)

// InputSystem asks each entity's brain for a decision and hands the
// steering to the physics component. Phase 0 (Input).
type InputSystem struct {
	coresys.NoRender
	inputs *ecs.Store[component.Input]
	phys   *ecs.Store[component.Physics]
	log    *zap.Logger
}

func NewInputSystem(inputs *ecs.Store[component.Input], phys *ecs.Store[component.Physics], log *zap.Logger) *InputSystem {
	return &InputSystem{inputs: inputs, phys: phys, log: log}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Mask() ecs.Mask { return ecs.MaskOf(ecs.Input) }

func (s *InputSystem) TickEntity(id ecs.EntityID, dt time.Duration) {
	in := s.inputs.Get(id)
	brain, ok := in.Brain.Brain()
	if !ok {
		return
	}
	intent := brain.Decide(dt)
	if p, ok := s.phys.Lookup(id); ok {
		p.Steering = intent.Steering
	}
}
