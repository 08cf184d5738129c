package anim

import "github.com/citysim/citysim/internal/physics"

// Frame is what a renderer needs to draw one animation frame.
type Frame struct {
	Animation *Animation
	Index     int
	Direction physics.Direction
}

// Animator plays one Animation. The zero value has no animation and draws
// nothing.
type Animator struct {
	anim      *Animation
	step      float64
	elapsed   float64
	frame     int
	direction physics.Direction
	playing   bool
}

// Init binds an animation. A step <= 0 uses the animation's default step.
func (a *Animator) Init(anim *Animation, step float64, dir physics.Direction, playing bool) {
	if step <= 0 && anim != nil {
		step = anim.DefaultStep
	}
	*a = Animator{
		anim:      anim,
		step:      step,
		direction: dir,
		playing:   playing,
	}
}

// Tick advances the frame timer by dt seconds.
func (a *Animator) Tick(dt float64) {
	if !a.playing || a.anim == nil || a.step <= 0 || a.anim.FrameCount <= 1 {
		return
	}
	a.elapsed += dt
	for a.elapsed >= a.step {
		a.elapsed -= a.step
		a.frame = (a.frame + 1) % a.anim.FrameCount
	}
}

func (a *Animator) Play() { a.playing = true }

// Pause stops the timer; with reset it also rewinds to the first frame.
func (a *Animator) Pause(reset bool) {
	a.playing = false
	if reset {
		a.frame = 0
		a.elapsed = 0
	}
}

func (a *Animator) SetDirection(d physics.Direction) { a.direction = d }

func (a *Animator) Playing() bool                { return a.playing }
func (a *Animator) Direction() physics.Direction { return a.direction }
func (a *Animator) Animation() *Animation        { return a.anim }

// Frame returns the current frame, or false when no animation is bound.
func (a *Animator) Frame() (Frame, bool) {
	if a.anim == nil {
		return Frame{}, false
	}
	return Frame{Animation: a.anim, Index: a.frame, Direction: a.direction}, true
}
