package camera

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/core/event"
	"github.com/citysim/citysim/internal/entity"
	"github.com/citysim/citysim/internal/physics"
)

func setup(t *testing.T) (*Service, *entity.Service, *event.Bus, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	log := zap.New(core)
	bus := event.NewBus(0, log)
	ents := entity.NewService(entity.Config{Capacity: 8}, bus, nil, nil, nil, log)
	t.Cleanup(ents.Close)
	cam := NewService(bus, ents, Config{Speed: 10, Width: 640, Height: 480}, log)
	t.Cleanup(cam.Close)
	return cam, ents, bus, logs
}

func TestTrackingFollowsEntity(t *testing.T) {
	cam, ents, _, _ := setup(t)
	ident := ents.CreateEntity(ecs.TypeHuman)
	p := ents.AddPhysicsComponent(ident, physics.Vec2{X: 7, Y: 9}, 0, -1)

	cam.SetTrackedEntity(ident.ID)
	if id, ok := cam.Tracked(); !ok || id != ident.ID {
		t.Fatal("camera should track the entity")
	}
	p.SetVelocity(physics.Vec2{X: 3})
	ents.PhysicsWorld().Step(0.5)
	cam.Tick(time.Second / 60)
	if cam.Center() != p.Position() {
		t.Fatalf("center = %v, want %v", cam.Center(), p.Position())
	}
	v := cam.View()
	if v.Center != cam.Center() || v.Width != 640 || v.Zoom != 1 {
		t.Fatalf("view = %+v", v)
	}
}

func TestTrackingWithoutPhysicsWarnsAndRoams(t *testing.T) {
	cam, ents, bus, logs := setup(t)
	ident := ents.CreateEntity(ecs.TypeHuman)

	cam.SetTrackedEntity(ident.ID)
	if _, ok := cam.Tracked(); ok {
		t.Fatal("entity without physics must not be tracked")
	}
	if logs.FilterMessageSnippet("could not track entity").Len() != 1 {
		t.Fatal("expected a warning")
	}

	bus.Publish(event.NewStartMoving(ecs.CameraEntity, physics.East))
	bus.Drain()
	cam.Tick(500 * time.Millisecond)
	if cam.Center() != (physics.Vec2{X: 5}) {
		t.Fatalf("free camera center = %v, want (5,0)", cam.Center())
	}
}

func TestTrackingIgnoresCameraControls(t *testing.T) {
	cam, ents, bus, _ := setup(t)
	ident := ents.CreateEntity(ecs.TypeHuman)
	ents.AddPhysicsComponent(ident, physics.Vec2{X: 1, Y: 1}, 0, -1)
	cam.SetTrackedEntity(ident.ID)

	bus.Publish(event.NewStartMoving(ecs.CameraEntity, physics.North))
	bus.Drain()
	cam.Tick(time.Second)
	if cam.Center() != (physics.Vec2{X: 1, Y: 1}) {
		t.Fatalf("tracking camera moved by its own controls: %v", cam.Center())
	}
}

func TestYieldAndDeathReleaseTracking(t *testing.T) {
	for _, ev := range []func(ecs.EntityID) event.Event{event.NewYieldControl, event.NewDeath} {
		cam, ents, bus, _ := setup(t)
		ident := ents.CreateEntity(ecs.TypeHuman)
		ents.AddPhysicsComponent(ident, physics.Vec2{}, 0, -1)
		other := ents.CreateEntity(ecs.TypeHuman)
		cam.SetTrackedEntity(ident.ID)

		bus.Publish(ev(other.ID))
		bus.Drain()
		if _, ok := cam.Tracked(); !ok {
			t.Fatal("event for another entity must not release tracking")
		}

		bus.Publish(ev(ident.ID))
		bus.Drain()
		if _, ok := cam.Tracked(); ok {
			t.Fatal("event for tracked entity should release tracking")
		}
	}
}

func TestStaleTrackedEntity(t *testing.T) {
	cam, ents, _, logs := setup(t)
	ident := ents.CreateEntity(ecs.TypeHuman)
	ents.AddPhysicsComponent(ident, physics.Vec2{}, 0, -1)
	cam.SetTrackedEntity(ident.ID)

	ents.Kill(ident.ID)
	reused := ents.CreateEntity(ecs.TypeVehicle)
	ents.AddPhysicsComponent(reused, physics.Vec2{X: 50}, 0, -1)
	if reused.ID != ident.ID {
		t.Fatalf("expected slot reuse, got %d", reused.ID)
	}

	cam.Tick(time.Second / 60)
	if _, ok := cam.Tracked(); ok {
		t.Fatal("camera must not follow a reused slot")
	}
	if logs.FilterMessage("tracked entity is gone").Len() != 1 {
		t.Fatal("expected a warning for the stale entity")
	}
	if cam.Center().X == 50 {
		t.Fatal("camera jumped to the new occupant")
	}
}
