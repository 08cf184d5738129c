package ai

import (
	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/core/event"
	"github.com/citysim/citysim/internal/physics"
)

var movementKinds = [...]event.Kind{
	event.InputStartMoving,
	event.InputStopMoving,
	event.InputSprint,
}

// MovementController turns semantic movement events addressed to one
// entity (or to the camera) into a steering vector. Opposite directions
// cancel out; diagonals are normalized.
type MovementController struct {
	bus              *event.Bus
	entity           ecs.EntityID
	pressed          [4]bool
	sprinting        bool
	sprintMultiplier float64
	enabled          bool
}

// NewMovementController subscribes a controller for entity to bus.
func NewMovementController(bus *event.Bus, entity ecs.EntityID, sprintMultiplier float64) *MovementController {
	if sprintMultiplier <= 0 {
		sprintMultiplier = 1
	}
	c := &MovementController{
		bus:              bus,
		entity:           entity,
		sprintMultiplier: sprintMultiplier,
	}
	c.Enable()
	return c
}

func (c *MovementController) Entity() ecs.EntityID { return c.entity }

func (c *MovementController) Enabled() bool { return c.enabled }

// Enable subscribes the controller. No-op if already enabled.
func (c *MovementController) Enable() {
	if c.enabled {
		return
	}
	for _, k := range movementKinds {
		c.bus.Subscribe(c, k)
	}
	c.enabled = true
}

// Disable unsubscribes the controller and forgets held keys.
func (c *MovementController) Disable() {
	if !c.enabled {
		return
	}
	for _, k := range movementKinds {
		c.bus.Unsubscribe(c, k)
	}
	c.enabled = false
	c.Reset()
}

// Reset releases every held direction and stops sprinting.
func (c *MovementController) Reset() {
	c.pressed = [4]bool{}
	c.sprinting = false
}

func (c *MovementController) OnEvent(ev event.Event) {
	if ev.Entity != c.entity {
		return
	}
	switch p := ev.Payload.(type) {
	case event.StartMove:
		c.pressed[p.Direction] = true
	case event.StopMove:
		c.pressed[p.Direction] = false
	case event.Sprint:
		c.sprinting = p.Start
	}
}

func (c *MovementController) Sprinting() bool { return c.sprinting }

// Steering returns the current steering vector.
func (c *MovementController) Steering() physics.Vec2 {
	var v physics.Vec2
	for d, held := range c.pressed {
		if held {
			v = v.Add(physics.Direction(d).Vector())
		}
	}
	v = v.Normalize()
	if c.sprinting {
		v = v.Scale(c.sprintMultiplier)
	}
	return v
}
