package world

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/core/event"
	"github.com/citysim/citysim/internal/data"
	"github.com/citysim/citysim/internal/entity"
	"github.com/citysim/citysim/internal/physics"
)

type protoMap map[string]data.Prototype

func (m protoMap) Prototype(t ecs.EntityType, name string) (data.Prototype, bool) {
	if t != ecs.TypeHuman {
		return nil, false
	}
	p, ok := m[name]
	return p, ok
}

func setup(t *testing.T) (*Spawner, *entity.Service, *event.Bus) {
	t.Helper()
	bus := event.NewBus(0, zap.NewNop())
	protos := protoMap{"citizen": {"name": "citizen"}}
	ents := entity.NewService(entity.Config{Capacity: 8, TilePixels: 32}, bus, nil, protos, nil, zap.NewNop())
	t.Cleanup(ents.Close)
	sp := NewSpawner(1, "citizen", bus, ents, zap.NewNop())
	t.Cleanup(sp.Close)
	return sp, ents, bus
}

func join(world, x, y int) event.JoinWorld {
	return event.JoinWorld{WorldID: world, SpawnX: x, SpawnY: y, SpawnDirection: physics.West}
}

func TestJoinSpawnsHumanFromPrototype(t *testing.T) {
	_, ents, bus := setup(t)

	bus.Publish(event.NewJoinWorld(ecs.Invalid, join(1, 4, 6)))
	bus.Drain()

	if ents.Count() != 1 {
		t.Fatalf("count = %d, want 1", ents.Count())
	}
	p, ok := ents.LookupPhysics(0)
	if !ok {
		t.Fatal("joined human should have physics")
	}
	if p.Position() != (physics.Vec2{X: 4, Y: 6}) {
		t.Fatalf("position = %v, want (4,6)", p.Position())
	}
	if d := ents.Render(0).Anim.Direction(); d != physics.West {
		t.Fatalf("direction = %v, want west", d)
	}
}

func TestJoinRelocatesExistingEntity(t *testing.T) {
	_, ents, bus := setup(t)
	ident, err := ents.Spawn(ecs.TypeHuman, "citizen", physics.Vec2{X: 1, Y: 1}, physics.South)
	if err != nil {
		t.Fatal(err)
	}

	bus.Publish(event.NewJoinWorld(ident.ID, join(1, 9, 3)))
	bus.Drain()

	if ents.Count() != 1 {
		t.Fatalf("join should not create a second entity, count = %d", ents.Count())
	}
	p := ents.Physics(ident.ID)
	if p.Position() != (physics.Vec2{X: 9, Y: 3}) || p.PrevPosition != p.Position() {
		t.Fatalf("position = %v prev = %v, want (9,3)", p.Position(), p.PrevPosition)
	}
	if d := ents.Render(ident.ID).Anim.Direction(); d != physics.West {
		t.Fatalf("direction = %v, want west", d)
	}
}

func TestJoinForAnotherWorldIsIgnored(t *testing.T) {
	_, ents, bus := setup(t)
	bus.Publish(event.NewJoinWorld(ecs.Invalid, join(2, 0, 0)))
	bus.Drain()
	if ents.Count() != 0 {
		t.Fatal("join for another world must not spawn")
	}
}

func TestDeathDestroysAfterTick(t *testing.T) {
	_, ents, bus := setup(t)
	ident, _ := ents.Spawn(ecs.TypeHuman, "citizen", physics.Vec2{}, physics.South)

	bus.Publish(event.NewDeath(ident.ID))
	bus.Drain()
	if !ents.Alive(ident.ID) {
		t.Fatal("death should only mark the entity")
	}
	ents.Tick(time.Second / 60)
	if ents.Alive(ident.ID) {
		t.Fatal("entity should be destroyed by the end of the tick")
	}
}

func TestInteractPicksNearestInRange(t *testing.T) {
	sp, ents, bus := setup(t)
	actor, _ := ents.Spawn(ecs.TypeHuman, "citizen", physics.Vec2{X: 5, Y: 5}, physics.South)
	near, _ := ents.Spawn(ecs.TypeHuman, "citizen", physics.Vec2{X: 6, Y: 5}, physics.South)
	ents.Spawn(ecs.TypeHuman, "citizen", physics.Vec2{X: 5, Y: 6.2}, physics.South)
	ents.Spawn(ecs.TypeHuman, "citizen", physics.Vec2{X: 9, Y: 9}, physics.South)
	sp.Reindex()
	if sp.Grid().Len() != 4 {
		t.Fatalf("grid len = %d, want 4", sp.Grid().Len())
	}

	bus.Publish(event.NewInteract(actor.ID))
	bus.Publish(event.NewInteract(ecs.CameraEntity))
	bus.Drain()

	got := sp.TakeInteractions()
	if len(got) != 1 || got[0] != (Interaction{Actor: actor.ID, Target: near.ID}) {
		t.Fatalf("interactions = %v", got)
	}
	if len(sp.TakeInteractions()) != 0 {
		t.Fatal("interactions should be forgotten once taken")
	}
}

func TestInteractWithNothingInRange(t *testing.T) {
	sp, ents, bus := setup(t)
	actor, _ := ents.Spawn(ecs.TypeHuman, "citizen", physics.Vec2{X: 5, Y: 5}, physics.South)
	ents.Spawn(ecs.TypeHuman, "citizen", physics.Vec2{X: 7, Y: 5}, physics.South)
	sp.Reindex()

	bus.Publish(event.NewInteract(actor.ID))
	bus.Drain()
	if got := sp.TakeInteractions(); len(got) != 0 {
		t.Fatalf("interactions = %v, want none", got)
	}
}
