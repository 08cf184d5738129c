package physics

import "github.com/ByteArena/box2d"

// Body is a scoped handle to a box2d body. The world owns the body memory;
// Release asks the world to destroy it and is safe to call more than once.
type Body struct {
	world *World
	b2    *box2d.B2Body
	data  *BodyData
}

// Released reports whether the body has been destroyed (or never existed).
func (b *Body) Released() bool {
	return b == nil || b.b2 == nil
}

// Release destroys the body.
func (b *Body) Release() {
	if b.Released() {
		return
	}
	b.world.destroy(b.b2)
	b.b2 = nil
}

// Position returns the body origin in tiles.
func (b *Body) Position() Vec2 {
	return fromB2(b.b2.GetPosition())
}

func (b *Body) LinearVelocity() Vec2 {
	return fromB2(b.b2.GetLinearVelocity())
}

func (b *Body) SetLinearVelocity(v Vec2) {
	b.b2.SetLinearVelocity(toB2(v))
}

// Data returns the user data tagged on the body.
func (b *Body) Data() BodyData {
	if b == nil || b.data == nil {
		return BodyData{}
	}
	return *b.data
}

// SetPosition teleports the body, keeping its velocity.
func (b *Body) SetPosition(p Vec2) {
	b.b2.SetTransform(toB2(p), b.b2.GetAngle())
}
