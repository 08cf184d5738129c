// Package anim holds read-only animation definitions and the per-entity
// animator state machine that plays them.
package anim

import (
	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/physics"
)

// Animation is a read-only sequence definition shared by every entity of a
// type. Each direction has its own row of FrameCount frames in the sheet.
type Animation struct {
	Name        string
	Sprite      string // sprite sheet path, optional
	FrameCount  int
	FrameWidth  int
	FrameHeight int
	Rows        map[physics.Direction]int
	DefaultStep float64 // seconds per frame
}

// Row returns the sheet row for a direction, falling back to row 0.
func (a *Animation) Row(d physics.Direction) int {
	if r, ok := a.Rows[d]; ok {
		return r
	}
	return 0
}

// Provider supplies animation definitions per entity type and name.
type Provider interface {
	Animation(t ecs.EntityType, name string) (*Animation, bool)
}
