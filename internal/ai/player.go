package ai

import (
	"time"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/core/event"
)

// PlayerBrain steers an entity from input events.
type PlayerBrain struct {
	ctrl *MovementController
}

func NewPlayerBrain(bus *event.Bus, entity ecs.EntityID, sprintMultiplier float64) *PlayerBrain {
	return &PlayerBrain{ctrl: NewMovementController(bus, entity, sprintMultiplier)}
}

func (b *PlayerBrain) Entity() ecs.EntityID { return b.ctrl.Entity() }

func (b *PlayerBrain) Decide(time.Duration) Intent {
	return Intent{Steering: b.ctrl.Steering()}
}

func (b *PlayerBrain) Controller() *MovementController { return b.ctrl }

func (b *PlayerBrain) Disable() { b.ctrl.Disable() }
