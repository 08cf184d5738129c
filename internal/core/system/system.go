package system

import (
	"time"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/render"
)

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput   Phase = iota // 0: brains decide steering
	PhasePhysics              // 1: steering to velocity, world step
	PhaseRender               // 2: animation state, drawing
	PhaseCleanup              // 3: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePhysics:
		return "physics"
	case PhaseRender:
		return "render"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// MaskNone is returned by systems that only work in TickHooks; the runner
// dispatches no entity to them.
const MaskNone = ^ecs.Mask(0)

// System is the interface every ECS system implements. The runner calls
// TickEntity and RenderEntity only for alive entities whose mask contains
// Mask().
type System interface {
	Phase() Phase
	Mask() ecs.Mask
	TickEntity(id ecs.EntityID, dt time.Duration)
	RenderEntity(id ecs.EntityID, target render.Surface)
}

// TickHooks is implemented by systems that need per-pass setup or a
// world-wide step after all entities were visited.
type TickHooks interface {
	BeginTick(dt time.Duration)
	EndTick(dt time.Duration)
}

// NoRender can be embedded by systems that draw nothing.
type NoRender struct{}

func (NoRender) RenderEntity(ecs.EntityID, render.Surface) {}
