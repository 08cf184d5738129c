// Package game wires the bus, the entity runtime, the camera, the input
// bindings and the world spawner into one frame-steppable simulation.
package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/ai"
	"github.com/citysim/citysim/internal/anim"
	"github.com/citysim/citysim/internal/camera"
	"github.com/citysim/citysim/internal/config"
	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/core/event"
	"github.com/citysim/citysim/internal/entity"
	"github.com/citysim/citysim/internal/input"
	"github.com/citysim/citysim/internal/physics"
	"github.com/citysim/citysim/internal/render"
	"github.com/citysim/citysim/internal/scripting"
	"github.com/citysim/citysim/internal/world"
)

// WorldID is the only world the simulation hosts.
const WorldID = 1

// Game owns every service of a running simulation. It is driven from a
// single goroutine by a frontend calling Publish, Step and Draw.
type Game struct {
	cfg      *config.Config
	bus      *event.Bus
	entities *entity.Service
	camera   *camera.Service
	input    *input.Service
	spawner  *world.Spawner
	player   ecs.Ref
	frames   uint64
	log      *zap.Logger
}

// New builds the services from cfg. protos, anims and engine may be nil,
// in which case Start can only spawn bare entities.
func New(cfg *config.Config, protos entity.Prototypes, anims anim.Provider, engine *scripting.Engine, log *zap.Logger) *Game {
	bus := event.NewBus(cfg.Events.MaxPerDrain, log)
	ents := entity.NewService(entity.Config{
		Capacity: cfg.Entities.Capacity,
		Physics: physics.Config{
			VelocityIterations: cfg.Physics.VelocityIterations,
			PositionIterations: cfg.Physics.PositionIterations,
			EntityScale:        cfg.Physics.EntityScale,
		},
		TilePixels:       cfg.Physics.TilePixels,
		WalkSpeed:        cfg.Movement.WalkSpeed,
		SprintMultiplier: cfg.Movement.SprintMultiplier,
		WanderInterval:   time.Duration(cfg.Movement.WanderInterval * float64(time.Second)),
	}, bus, anims, protos, engine, log)

	g := &Game{
		cfg:      cfg,
		bus:      bus,
		entities: ents,
		camera: camera.NewService(bus, ents, camera.Config{
			Speed:            cfg.Debug.CameraSpeed,
			SprintMultiplier: cfg.Movement.SprintMultiplier,
			Zoom:             cfg.Display.Zoom,
			Width:            cfg.Display.Width,
			Height:           cfg.Display.Height,
		}, log),
		input:   input.NewService(bus, nil, log),
		spawner: world.NewSpawner(WorldID, cfg.World.PlayerPrototype, bus, ents, log),
		player:  ecs.NoRef,
		log:     log,
	}
	bus.Subscribe(g, event.InputYieldControl)
	bus.Subscribe(g, event.HumanDeath)
	return g
}

func (g *Game) Bus() *event.Bus             { return g.bus }
func (g *Game) Entities() *entity.Service   { return g.entities }
func (g *Game) Camera() *camera.Service     { return g.camera }
func (g *Game) Input() *input.Service       { return g.input }
func (g *Game) Spawner() *world.Spawner     { return g.spawner }
func (g *Game) TilePixels() float64         { return g.cfg.Physics.TilePixels }
func (g *Game) Frames() uint64              { return g.frames }
func (g *Game) TickInterval() time.Duration { return time.Second / time.Duration(g.cfg.Display.TPS) }

// Player returns the player's entity while it is alive.
func (g *Game) Player() (ecs.EntityID, bool) {
	if !g.entities.World().Valid(g.player) {
		return ecs.Invalid, false
	}
	return g.player.ID, true
}

// Start spawns the configured population, then the player, and hands the
// player control and the camera.
func (g *Game) Start() error {
	for _, sp := range g.cfg.World.Spawns {
		if err := g.spawnEntry(sp); err != nil {
			return err
		}
	}

	spawn := g.cfg.World.PlayerSpawn
	tile := physics.Vec2{X: float64(spawn[0]), Y: float64(spawn[1])}
	ident, err := g.entities.Spawn(ecs.TypeHuman, g.cfg.World.PlayerPrototype, tile, physics.South)
	if err != nil {
		return fmt.Errorf("spawn player: %w", err)
	}
	if !g.entities.HasInput(ident.ID) {
		g.entities.AddPlayerInputComponent(ident.ID)
	}
	g.player = g.entities.World().Ref(ident.ID)
	g.takeControl()

	g.log.Info("world started",
		zap.Int("entities", g.entities.Count()),
		zap.Stringer("player", ident))
	return nil
}

func (g *Game) spawnEntry(sp config.SpawnEntry) error {
	t, ok := ecs.ParseEntityType(sp.Type)
	if !ok {
		return fmt.Errorf("spawn %q: unknown entity type %q", sp.Prototype, sp.Type)
	}
	dir := physics.South
	if sp.Direction != "" {
		if dir, ok = physics.ParseDirection(sp.Direction); !ok {
			return fmt.Errorf("spawn %q: unknown direction %q", sp.Prototype, sp.Direction)
		}
	}
	count := max(sp.Count, 1)
	for i := 0; i < count; i++ {
		tile := physics.Vec2{X: float64(sp.X + i), Y: float64(sp.Y)}
		if _, err := g.entities.Spawn(t, sp.Prototype, tile, dir); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) takeControl() {
	id, ok := g.Player()
	if !ok {
		return
	}
	g.input.SetPlayerEntity(id)
	g.camera.SetTrackedEntity(id)
}

// OnEvent toggles control between the player and the free camera, and
// returns control to the camera when the player dies.
func (g *Game) OnEvent(ev event.Event) {
	id, ok := g.Player()
	if !ok {
		return
	}
	switch ev.Kind {
	case event.InputYieldControl:
		switch ev.Entity {
		case ecs.CameraEntity:
			g.takeControl()
		case id:
			if brain, ok := g.entities.Brains().Controller(id); ok {
				if pb, ok := brain.(*ai.PlayerBrain); ok {
					pb.Controller().Reset()
				}
			}
		}
	case event.HumanDeath:
		if ev.Entity == id {
			g.input.SetPlayerEntity(ecs.CameraEntity)
		}
	}
}

// Publish queues an event for the next Step.
func (g *Game) Publish(ev event.Event) { g.bus.Publish(ev) }

// Step advances the simulation by one fixed tick: pending events are
// delivered, entities are ticked, the spatial index is rebuilt and the
// camera follows. A fault raised anywhere in the frame is returned.
func (g *Game) Step(dt time.Duration) (err error) {
	defer ecs.Recover(&err)

	g.bus.Drain()
	g.entities.Tick(dt)
	g.spawner.Reindex()
	g.camera.Tick(dt)
	for _, in := range g.spawner.TakeInteractions() {
		g.log.Debug("interaction", zap.Int32("actor", int32(in.Actor)), zap.Int32("target", int32(in.Target)))
	}
	g.frames++
	return nil
}

// View is the camera's current view.
func (g *Game) View() render.View { return g.camera.View() }

// Resize tells the camera the new screen size.
func (g *Game) Resize(w, h int) { g.camera.SetSize(w, h) }

// Draw emits every renderable entity to target. alpha in [0,1] is how far
// the frame lies between the last two ticks.
func (g *Game) Draw(target render.Surface, alpha float64) (err error) {
	defer ecs.Recover(&err)
	g.entities.Draw(target, alpha)
	return nil
}

// Close releases every entity and drops all subscriptions.
func (g *Game) Close() {
	g.bus.Unsubscribe(g, event.InputYieldControl)
	g.bus.Unsubscribe(g, event.HumanDeath)
	g.spawner.Close()
	g.input.Close()
	g.camera.Close()
	g.entities.Close()
}
