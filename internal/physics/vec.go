package physics

import (
	"math"

	"github.com/ByteArena/box2d"
)

// Vec2 is a 2D vector in tile units unless noted otherwise.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2    { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Len2() float64           { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Len() float64            { return math.Sqrt(v.Len2()) }
func (v Vec2) IsZero() bool            { return v.X == 0 && v.Y == 0 }
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Normalize returns the unit vector of v, or the zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

func toB2(v Vec2) box2d.B2Vec2    { return box2d.MakeB2Vec2(v.X, v.Y) }
func fromB2(v box2d.B2Vec2) Vec2 { return Vec2{X: v.X, Y: v.Y} }

// Direction is one of the four facing directions. Y grows south.
type Direction uint8

const (
	South Direction = iota
	West
	East
	North
)

var directionNames = [...]string{"south", "west", "east", "north"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "unknown"
}

// ParseDirection maps a name to a Direction, defaulting to South.
func ParseDirection(s string) (Direction, bool) {
	for i, n := range directionNames {
		if n == s {
			return Direction(i), true
		}
	}
	return South, false
}

// Vector returns the unit vector pointing in d.
func (d Direction) Vector() Vec2 {
	switch d {
	case West:
		return Vec2{-1, 0}
	case East:
		return Vec2{1, 0}
	case North:
		return Vec2{0, -1}
	}
	return Vec2{0, 1}
}

// DirectionOf returns the direction of the dominant axis of v. Ties favour
// the horizontal axis; the zero vector yields (South, false).
func DirectionOf(v Vec2) (Direction, bool) {
	if v.IsZero() {
		return South, false
	}
	if math.Abs(v.X) >= math.Abs(v.Y) {
		if v.X < 0 {
			return West, true
		}
		return East, true
	}
	if v.Y < 0 {
		return North, true
	}
	return South, true
}
