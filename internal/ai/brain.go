// Package ai holds the behaviour drivers that decide where an entity wants
// to go each tick: player-controlled brains fed by input events and
// autonomous brains driven by Lua or a built-in wander.
package ai

import (
	"time"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/physics"
)

// Intent is a brain's decision for one tick. Steering is a direction
// scaled by speed factor: unit length walks, longer sprints, zero stops.
type Intent struct {
	Steering physics.Vec2
}

// Brain decides an entity's steering.
type Brain interface {
	Entity() ecs.EntityID
	Decide(dt time.Duration) Intent
}

// Disabler is implemented by brains that hold event subscriptions. Disable
// is called when the brain is detached from its entity.
type Disabler interface {
	Disable()
}
