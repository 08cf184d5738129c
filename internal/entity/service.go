// Package entity owns the entity registry, its component stores and the
// system pipeline, and builds entities from prototypes.
package entity

import (
	"time"

	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/ai"
	"github.com/citysim/citysim/internal/anim"
	"github.com/citysim/citysim/internal/component"
	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/core/event"
	coresys "github.com/citysim/citysim/internal/core/system"
	"github.com/citysim/citysim/internal/data"
	"github.com/citysim/citysim/internal/physics"
	"github.com/citysim/citysim/internal/render"
	"github.com/citysim/citysim/internal/scripting"
	"github.com/citysim/citysim/internal/system"
)

const defaultDamping = 0.9

// Prototypes supplies entity prototypes by type and name.
type Prototypes interface {
	Prototype(t ecs.EntityType, name string) (data.Prototype, bool)
}

// Config sizes the registry and tunes movement.
type Config struct {
	Capacity         int
	Physics          physics.Config
	TilePixels       float64
	WalkSpeed        float64 // default max speed, tiles per second
	SprintMultiplier float64
	WanderInterval   time.Duration
}

// Service is the entity runtime: registry, stores, physics world, brains
// and the system pipeline.
type Service struct {
	cfg       Config
	world     *ecs.World
	phys      *ecs.Store[component.Physics]
	rends     *ecs.Store[component.Render]
	inputs    *ecs.Store[component.Input]
	physWorld *physics.World
	brains    *ai.Pool
	runner    *coresys.Runner
	renderSys *system.RenderSystem

	bus    *event.Bus
	anims  anim.Provider
	protos Prototypes
	engine *scripting.Engine
	log    *zap.Logger
}

// NewService builds the registry and registers the systems in pipeline
// order. anims, protos and engine may be nil.
func NewService(cfg Config, bus *event.Bus, anims anim.Provider, protos Prototypes, engine *scripting.Engine, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.WalkSpeed <= 0 {
		cfg.WalkSpeed = 4
	}
	world := ecs.NewWorld(cfg.Capacity, log)
	s := &Service{
		cfg:       cfg,
		world:     world,
		phys:      ecs.NewStore[component.Physics](world, ecs.Physics),
		rends:     ecs.NewStore[component.Render](world, ecs.Render),
		inputs:    ecs.NewStore[component.Input](world, ecs.Input),
		physWorld: physics.NewWorld(cfg.Physics, log),
		brains:    ai.NewPool(log),
		runner:    coresys.NewRunner(world),
		bus:       bus,
		anims:     anims,
		protos:    protos,
		engine:    engine,
		log:       log,
	}
	s.renderSys = system.NewRenderSystem(world, s.phys, s.rends, cfg.TilePixels, log)

	s.runner.Register(system.NewInputSystem(s.inputs, s.phys, log))
	s.runner.Register(system.NewPhysicsSystem(s.physWorld, s.phys, log))
	s.runner.Register(s.renderSys)
	s.runner.Register(system.NewCleanupSystem(world, log))
	return s
}

func (s *Service) World() *ecs.World            { return s.world }
func (s *Service) PhysicsWorld() *physics.World { return s.physWorld }
func (s *Service) Brains() *ai.Pool             { return s.brains }
func (s *Service) Runner() *coresys.Runner      { return s.runner }
func (s *Service) Count() int                   { return s.world.Count() }

// CreateEntity creates an entity of type t with no components.
func (s *Service) CreateEntity(t ecs.EntityType) ecs.Identifier {
	return s.world.CreateTyped(t)
}

// Kill destroys the entity now, releasing its body and brain.
func (s *Service) Kill(id ecs.EntityID) { s.world.Kill(id) }

// MarkForDestruction kills the entity at the end of the current tick.
func (s *Service) MarkForDestruction(id ecs.EntityID) { s.world.MarkForDestruction(id) }

func (s *Service) Alive(id ecs.EntityID) bool { return s.world.Alive(id) }

// AddPhysicsComponent attaches a physics component with a fresh body at
// tile. maxSpeed <= 0 uses the configured walk speed; a negative damping
// uses the default.
func (s *Service) AddPhysicsComponent(ident ecs.Identifier, tile physics.Vec2, maxSpeed, damping float64) *component.Physics {
	p := s.phys.Add(ident.ID)
	p.Body = s.physWorld.CreateEntityBody(ident, tile)
	p.PrevPosition = tile
	p.MaxSpeed = s.cfg.WalkSpeed
	if maxSpeed > 0 {
		p.MaxSpeed = maxSpeed
	}
	if damping >= 0 {
		p.Damping = damping
	}
	return p
}

// AddRenderComponent attaches a render component playing the named
// animation of the entity's type. An empty name, or one that cannot be
// resolved, leaves the animator empty; the latter is warned about.
func (s *Service) AddRenderComponent(ident ecs.Identifier, animation string, step float64, dir physics.Direction, playing bool) *component.Render {
	r := s.rends.Add(ident.ID)
	var a *anim.Animation
	if animation != "" && s.anims != nil {
		var ok bool
		if a, ok = s.anims.Animation(ident.Type, animation); !ok {
			s.log.Warn("animation not found",
				zap.Stringer("entity", ident), zap.String("animation", animation))
		}
	}
	r.Anim.Init(a, step, dir, playing)
	return r
}

// AddPlayerInputComponent lets input events addressed to id steer it.
func (s *Service) AddPlayerInputComponent(id ecs.EntityID) *component.Input {
	in := s.inputs.Add(id)
	in.Brain = s.brains.Attach(ai.NewPlayerBrain(s.bus, id, s.cfg.SprintMultiplier))
	return in
}

// AddAIInputComponent gives the entity an autonomous brain.
func (s *Service) AddAIInputComponent(ident ecs.Identifier) *component.Input {
	id := ident.ID
	sense := func() (physics.Vec2, physics.Vec2, bool) {
		p, ok := s.phys.Lookup(id)
		if !ok || !p.HasBody() {
			return physics.Vec2{}, physics.Vec2{}, false
		}
		return p.Position(), p.Velocity(), true
	}
	brain := ai.NewScriptedBrain(ident, s.engine, sense, ai.ScriptedConfig{
		WanderInterval:   s.cfg.WanderInterval,
		SprintMultiplier: s.cfg.SprintMultiplier,
	})
	in := s.inputs.Add(id)
	in.Brain = s.brains.Attach(brain)
	return in
}

func (s *Service) RemovePhysicsComponent(id ecs.EntityID) { s.phys.Remove(id) }
func (s *Service) RemoveRenderComponent(id ecs.EntityID)  { s.rends.Remove(id) }
func (s *Service) RemoveInputComponent(id ecs.EntityID)   { s.inputs.Remove(id) }

func (s *Service) HasPhysics(id ecs.EntityID) bool { return s.phys.Has(id) }
func (s *Service) HasRender(id ecs.EntityID) bool  { return s.rends.Has(id) }
func (s *Service) HasInput(id ecs.EntityID) bool   { return s.inputs.Has(id) }

// Physics returns the attached physics component; it must be present.
func (s *Service) Physics(id ecs.EntityID) *component.Physics { return s.phys.Get(id) }

// Render returns the attached render component; it must be present.
func (s *Service) Render(id ecs.EntityID) *component.Render { return s.rends.Get(id) }

// Input returns the attached input component; it must be present.
func (s *Service) Input(id ecs.EntityID) *component.Input { return s.inputs.Get(id) }

// LookupPhysics returns the physics component of id if id is a valid,
// live entity that has one.
func (s *Service) LookupPhysics(id ecs.EntityID) (*component.Physics, bool) {
	if id < 0 || int(id) >= s.world.Capacity() {
		return nil, false
	}
	return s.phys.Lookup(id)
}

func (s *Service) LookupRender(id ecs.EntityID) (*component.Render, bool) {
	if id < 0 || int(id) >= s.world.Capacity() {
		return nil, false
	}
	return s.rends.Lookup(id)
}

func (s *Service) LookupInput(id ecs.EntityID) (*component.Input, bool) {
	if id < 0 || int(id) >= s.world.Capacity() {
		return nil, false
	}
	return s.inputs.Lookup(id)
}

// ResolveEntityFromBody maps a physics body back to its owner.
func (s *Service) ResolveEntityFromBody(b *physics.Body) (ecs.Identifier, bool) {
	return physics.ResolveEntity(b)
}

// Tick runs the pipeline once. Entities marked for destruction during the
// tick are killed by the cleanup phase at its end.
func (s *Service) Tick(dt time.Duration) {
	s.runner.Tick(dt)
}

// Draw emits every visible entity to target, interpolating positions by
// alpha between the last two physics steps.
func (s *Service) Draw(target render.Surface, alpha float64) {
	s.renderSys.SetAlpha(alpha)
	s.runner.Render(target)
}

// Close kills every entity so bodies and brains are released.
func (s *Service) Close() {
	for _, id := range s.world.Snapshot(nil) {
		s.world.Kill(id)
	}
}
