package physics

import (
	"testing"

	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/core/ecs"
)

func newTestWorld() *World {
	return NewWorld(Config{}, zap.NewNop())
}

func TestEntityBodyResolvesOwner(t *testing.T) {
	w := newTestWorld()
	ident := ecs.Identifier{ID: 7, Type: ecs.TypeHuman}
	b := w.CreateEntityBody(ident, Vec2{3, 4})

	got, ok := ResolveEntity(b)
	if !ok {
		t.Fatal("expected entity body to resolve")
	}
	if got != ident {
		t.Fatalf("resolved %v, want %v", got, ident)
	}
	if pos := b.Position(); pos != (Vec2{3, 4}) {
		t.Fatalf("body position = %v, want start tile", pos)
	}
}

func TestBareBodyDoesNotResolve(t *testing.T) {
	w := newTestWorld()
	b := w.CreateBody(BodyDef{Position: Vec2{1, 1}})
	if _, ok := ResolveEntity(b); ok {
		t.Fatal("a body without fixtures must not resolve to an entity")
	}
	if _, ok := ResolveEntity(nil); ok {
		t.Fatal("nil body must not resolve")
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	w := newTestWorld()
	b := w.CreateEntityBody(ecs.Identifier{ID: 0, Type: ecs.TypeHuman}, Vec2{})
	if w.BodyCount() != 1 {
		t.Fatalf("body count = %d, want 1", w.BodyCount())
	}
	b.Release()
	b.Release()
	if w.BodyCount() != 0 {
		t.Fatalf("body count after release = %d, want 0", w.BodyCount())
	}
	if !b.Released() {
		t.Fatal("body should report released")
	}
	if _, ok := ResolveEntity(b); ok {
		t.Fatal("released body must not resolve")
	}
}

func TestStepMovesBody(t *testing.T) {
	w := newTestWorld()
	b := w.CreateEntityBody(ecs.Identifier{ID: 0, Type: ecs.TypeHuman}, Vec2{})
	b.SetLinearVelocity(Vec2{2, 0})
	for i := 0; i < 10; i++ {
		w.Step(1.0 / 60.0)
	}
	pos := b.Position()
	if pos.X <= 0 {
		t.Fatalf("body did not move east: %v", pos)
	}
	if pos.Y != 0 {
		t.Fatalf("body drifted vertically without gravity: %v", pos)
	}
}

func TestDirectionOf(t *testing.T) {
	cases := []struct {
		v    Vec2
		want Direction
		ok   bool
	}{
		{Vec2{}, South, false},
		{Vec2{1, 0}, East, true},
		{Vec2{-2, 1}, West, true},
		{Vec2{0.5, -3}, North, true},
		{Vec2{0.1, 0.2}, South, true},
		{Vec2{1, 1}, East, true},
	}
	for _, tc := range cases {
		got, ok := DirectionOf(tc.v)
		if got != tc.want || ok != tc.ok {
			t.Errorf("DirectionOf(%v) = %v,%v want %v,%v", tc.v, got, ok, tc.want, tc.ok)
		}
	}
	for _, d := range []Direction{South, West, East, North} {
		if got, _ := DirectionOf(d.Vector()); got != d {
			t.Errorf("DirectionOf(%v.Vector()) = %v", d, got)
		}
	}
}
