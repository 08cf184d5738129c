package component

import "github.com/citysim/citysim/internal/anim"

// Render holds the entity's animation state.
type Render struct {
	Anim anim.Animator
}
