package system

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/component"
	"github.com/citysim/citysim/internal/core/ecs"
	coresys "github.com/citysim/citysim/internal/core/system"
	"github.com/citysim/citysim/internal/physics"
)

// Velocities below this are snapped to zero while damping.
const restSpeed2 = 1e-4

// PhysicsSystem converts steering into body velocity, then steps the
// physics world once for all entities. Phase 1 (Physics).
type PhysicsSystem struct {
	coresys.NoRender
	world *physics.World
	phys  *ecs.Store[component.Physics]
	log   *zap.Logger
}

func NewPhysicsSystem(world *physics.World, phys *ecs.Store[component.Physics], log *zap.Logger) *PhysicsSystem {
	return &PhysicsSystem{world: world, phys: phys, log: log}
}

func (s *PhysicsSystem) Phase() coresys.Phase { return coresys.PhasePhysics }

func (s *PhysicsSystem) Mask() ecs.Mask { return ecs.MaskOf(ecs.Physics) }

func (s *PhysicsSystem) BeginTick(time.Duration) {}

func (s *PhysicsSystem) TickEntity(id ecs.EntityID, dt time.Duration) {
	p := s.phys.Get(id)
	if !p.HasBody() {
		ecs.Raise(s.log, "physics tick", id, ecs.ErrMissingBody)
	}
	p.PrevPosition = p.Position()

	if p.IsSteering() {
		p.SetVelocity(p.Steering.Scale(p.MaxSpeed))
		return
	}
	v := p.Velocity()
	if v.IsZero() {
		return
	}
	v = v.Scale(decay(p.Damping, dt.Seconds()))
	if v.Len2() < restSpeed2 {
		v = physics.Vec2{}
	}
	p.SetVelocity(v)
}

// EndTick steps the world and records the resulting velocities.
func (s *PhysicsSystem) EndTick(dt time.Duration) {
	s.world.Step(dt.Seconds())
	s.phys.Each(func(_ ecs.EntityID, p *component.Physics) {
		if p.HasBody() {
			p.LastVelocity = p.Velocity()
		}
	})
}

// decay returns the factor left after losing damping (a fraction) of the
// velocity per second over dt seconds.
func decay(damping, dt float64) float64 {
	if damping <= 0 {
		return 1
	}
	if damping >= 1 {
		return 0
	}
	return math.Pow(1-damping, dt)
}
