package game

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/config"
	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/core/event"
	"github.com/citysim/citysim/internal/data"
	"github.com/citysim/citysim/internal/render"
)

type protoMap map[ecs.EntityType]map[string]data.Prototype

func (m protoMap) Prototype(t ecs.EntityType, name string) (data.Prototype, bool) {
	p, ok := m[t][name]
	return p, ok
}

type nopSurface struct{ n int }

func (s *nopSurface) DrawSprite(render.Sprite) { s.n++ }

func newGame(t *testing.T, spawns ...config.SpawnEntry) *Game {
	t.Helper()
	cfg := config.Default()
	cfg.Entities.Capacity = 32
	cfg.World.Spawns = spawns
	protos := protoMap{
		ecs.TypeHuman: {
			"player":  {"name": "player", "brain": "player", "damping": "1"},
			"citizen": {"name": "citizen"},
		},
		ecs.TypeVehicle: {
			"car": {"name": "car"},
		},
	}
	g := New(cfg, protos, nil, nil, zap.NewNop())
	t.Cleanup(g.Close)
	return g
}

func step(t *testing.T, g *Game, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := g.Step(g.TickInterval()); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
}

func TestStartSpawnsPopulationAndPlayer(t *testing.T) {
	g := newGame(t,
		config.SpawnEntry{Type: "human", Prototype: "citizen", X: 2, Y: 3, Count: 3},
		config.SpawnEntry{Type: "vehicle", Prototype: "car", X: 5, Y: 5, Direction: "east"},
	)
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if n := g.Entities().Count(); n != 5 {
		t.Fatalf("count = %d, want 5", n)
	}
	id, ok := g.Player()
	if !ok {
		t.Fatal("player should be alive")
	}
	if tracked, ok := g.Camera().Tracked(); !ok || tracked != id {
		t.Fatal("camera should track the player")
	}
	if g.Input().PlayerEntity() != id {
		t.Fatal("input should address the player")
	}

	var s nopSurface
	if err := g.Draw(&s, 1); err != nil {
		t.Fatal(err)
	}
	if s.n != 5 {
		t.Fatalf("drew %d sprites, want 5", s.n)
	}
}

func TestStartRejectsBadSpawnEntries(t *testing.T) {
	for _, sp := range []config.SpawnEntry{
		{Type: "dragon", Prototype: "citizen"},
		{Type: "human", Prototype: "citizen", Direction: "up"},
		{Type: "human", Prototype: "ghost"},
	} {
		g := newGame(t, sp)
		if err := g.Start(); err == nil {
			t.Errorf("Start with %+v should fail", sp)
		}
	}
}

func TestKeysMovePlayer(t *testing.T) {
	g := newGame(t)
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	id, _ := g.Player()
	start := g.Entities().Physics(id).Position()

	g.Publish(event.NewRawKey(event.KeyD, true))
	step(t, g, 3)

	pos := g.Entities().Physics(id).Position()
	if pos.X <= start.X || pos.Y != start.Y {
		t.Fatalf("player at %v, want east of %v", pos, start)
	}
	if g.Camera().Center() != pos {
		t.Fatalf("camera at %v, want %v", g.Camera().Center(), pos)
	}
	if g.Frames() != 3 {
		t.Fatalf("frames = %d", g.Frames())
	}
}

func TestYieldTogglesControl(t *testing.T) {
	g := newGame(t)
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	id, _ := g.Player()

	g.Publish(event.NewRawKey(event.KeyTab, true))
	step(t, g, 2)
	if _, ok := g.Camera().Tracked(); ok {
		t.Fatal("camera should roam after yielding")
	}
	if g.Input().PlayerEntity() != ecs.CameraEntity {
		t.Fatal("input should address the camera after yielding")
	}

	g.Publish(event.NewRawKey(event.KeyTab, true))
	step(t, g, 2)
	if tracked, ok := g.Camera().Tracked(); !ok || tracked != id {
		t.Fatal("second yield should give the player back")
	}
	if g.Input().PlayerEntity() != id {
		t.Fatal("input should address the player again")
	}
}

func TestPlayerDeath(t *testing.T) {
	g := newGame(t)
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	id, _ := g.Player()

	g.Publish(event.NewDeath(id))
	step(t, g, 1)
	if _, ok := g.Player(); ok {
		t.Fatal("player should be destroyed at the end of the tick")
	}
	if g.Input().PlayerEntity() != ecs.CameraEntity {
		t.Fatal("input should fall back to the camera")
	}
	if _, ok := g.Camera().Tracked(); ok {
		t.Fatal("camera should stop tracking a dead player")
	}
}

func TestStepReturnsFault(t *testing.T) {
	g := newGame(t)
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	id, _ := g.Player()
	g.Entities().Physics(id).Release()

	err := g.Step(g.TickInterval())
	if !errors.Is(err, ecs.ErrMissingBody) {
		t.Fatalf("err = %v, want ErrMissingBody", err)
	}
}
