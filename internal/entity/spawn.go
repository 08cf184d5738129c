package entity

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/physics"
)

var (
	ErrUnknownPrototype = errors.New("unknown prototype")
	ErrUnknownBrain     = errors.New("unknown brain kind")
)

// Brain kinds accepted by the prototype "brain" attribute.
const (
	BrainNone   = "none"
	BrainPlayer = "player"
	BrainAI     = "ai"
)

// spawnSpec is a prototype resolved into component parameters.
type spawnSpec struct {
	maxSpeed  float64
	damping   float64
	animation string
	step      float64
	brain     string
}

func (s *Service) resolve(t ecs.EntityType, name string) (spawnSpec, error) {
	if s.protos == nil {
		return spawnSpec{}, fmt.Errorf("%s/%s: %w", t, name, ErrUnknownPrototype)
	}
	p, ok := s.protos.Prototype(t, name)
	if !ok {
		return spawnSpec{}, fmt.Errorf("%s/%s: %w", t, name, ErrUnknownPrototype)
	}
	var spec spawnSpec
	var err error
	if spec.maxSpeed, err = p.Float("max_speed", s.cfg.WalkSpeed); err != nil {
		return spawnSpec{}, err
	}
	if spec.damping, err = p.Float("damping", defaultDamping); err != nil {
		return spawnSpec{}, err
	}
	if spec.step, err = p.Float("animation_step", 0); err != nil {
		return spawnSpec{}, err
	}
	spec.animation = p.String("animation", p.String("sprite", ""))
	spec.brain = p.String("brain", BrainNone)
	switch spec.brain {
	case BrainNone, BrainPlayer, BrainAI:
	default:
		return spawnSpec{}, fmt.Errorf("%s/%s brain %q: %w", t, name, spec.brain, ErrUnknownBrain)
	}
	return spec, nil
}

// Spawn creates an entity of type t from the named prototype, standing on
// tile and facing dir. Nothing is created when the prototype is unknown or
// malformed.
func (s *Service) Spawn(t ecs.EntityType, prototype string, tile physics.Vec2, dir physics.Direction) (ecs.Identifier, error) {
	spec, err := s.resolve(t, prototype)
	if err != nil {
		return ecs.NoIdentifier, fmt.Errorf("spawn: %w", err)
	}

	ident := s.CreateEntity(t)
	s.AddPhysicsComponent(ident, tile, spec.maxSpeed, spec.damping)
	s.AddRenderComponent(ident, spec.animation, spec.step, dir, false)
	switch spec.brain {
	case BrainPlayer:
		s.AddPlayerInputComponent(ident.ID)
	case BrainAI:
		s.AddAIInputComponent(ident)
	}

	s.log.Debug("spawned entity",
		zap.Stringer("entity", ident),
		zap.String("prototype", prototype),
		zap.Float64("x", tile.X), zap.Float64("y", tile.Y))
	return ident, nil
}
