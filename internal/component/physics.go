package component

import (
	"math"

	"github.com/citysim/citysim/internal/physics"
)

// Physics links an entity to its physics body and carries the per-tick
// movement state the pipeline derives from it.
type Physics struct {
	Body         *physics.Body
	LastVelocity physics.Vec2 // velocity after the most recent world step
	PrevPosition physics.Vec2 // position before the most recent world step
	Steering     physics.Vec2 // written by the input phase
	MaxSpeed     float64      // tiles per second at unit steering
	Damping      float64      // fraction of velocity lost per second when not steering
}

func (p *Physics) Reset() {
	p.MaxSpeed = 4
	p.Damping = 0.9
}

// Release destroys the body. The component keeps its nil-body state so a
// later tick reports it as missing.
func (p *Physics) Release() {
	if p.Body != nil {
		p.Body.Release()
		p.Body = nil
	}
}

func (p *Physics) Position() physics.Vec2 { return p.Body.Position() }

// TilePosition returns the tile the body origin is on.
func (p *Physics) TilePosition() (x, y int) {
	pos := p.Position()
	return int(math.Floor(pos.X)), int(math.Floor(pos.Y))
}

func (p *Physics) Velocity() physics.Vec2 { return p.Body.LinearVelocity() }

func (p *Physics) SetVelocity(v physics.Vec2) { p.Body.SetLinearVelocity(v) }

// IsStopped reports whether the last stepped velocity is below walking pace.
func (p *Physics) IsStopped() bool { return p.LastVelocity.Len2() < 1 }

func (p *Physics) IsSteering() bool { return !p.Steering.IsZero() }

// HasBody reports whether a live body is attached.
func (p *Physics) HasBody() bool { return p.Body != nil && !p.Body.Released() }
