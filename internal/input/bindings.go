// Package input maps raw key events to semantic input events addressed to
// the entity the player currently controls.
package input

import (
	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/core/event"
	"github.com/citysim/citysim/internal/physics"
)

// Action is what a bound key does.
type Action uint8

const (
	ActionNone Action = iota
	ActionMove
	ActionSprint
	ActionYield
	ActionInteract
)

// Binding is the action of one key, with a direction for ActionMove.
type Binding struct {
	Action    Action
	Direction physics.Direction
}

// DefaultBindings binds WASD and the arrows to movement, Shift to sprint,
// Tab to yielding control and E to interacting.
func DefaultBindings() map[event.Key]Binding {
	return map[event.Key]Binding{
		event.KeyW:     {ActionMove, physics.North},
		event.KeyA:     {ActionMove, physics.West},
		event.KeyS:     {ActionMove, physics.South},
		event.KeyD:     {ActionMove, physics.East},
		event.KeyUp:    {ActionMove, physics.North},
		event.KeyLeft:  {ActionMove, physics.West},
		event.KeyDown:  {ActionMove, physics.South},
		event.KeyRight: {ActionMove, physics.East},
		event.KeyShift: {Action: ActionSprint},
		event.KeyTab:   {Action: ActionYield},
		event.KeyE:     {Action: ActionInteract},
	}
}

// Service listens for raw key events and republishes them as semantic
// events for the controlled entity (the camera when nobody is controlled).
type Service struct {
	bus      *event.Bus
	bindings map[event.Key]Binding
	player   ecs.EntityID
	log      *zap.Logger
}

func NewService(bus *event.Bus, bindings map[event.Key]Binding, log *zap.Logger) *Service {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	s := &Service{
		bus:      bus,
		bindings: bindings,
		player:   ecs.CameraEntity,
		log:      log,
	}
	bus.Subscribe(s, event.RawInputKey)
	bus.Subscribe(s, event.InputYieldControl)
	return s
}

// SetPlayerEntity addresses subsequent input to id.
func (s *Service) SetPlayerEntity(id ecs.EntityID) {
	s.log.Debug("input now controls entity", zap.Int32("entity", int32(id)))
	s.player = id
}

func (s *Service) PlayerEntity() ecs.EntityID { return s.player }

func (s *Service) OnEvent(ev event.Event) {
	switch p := ev.Payload.(type) {
	case event.RawKey:
		s.onKey(p)
	case nil:
		if ev.Kind == event.InputYieldControl && ev.Entity == s.player && s.player != ecs.CameraEntity {
			s.SetPlayerEntity(ecs.CameraEntity)
		}
	}
}

func (s *Service) onKey(k event.RawKey) {
	b, ok := s.bindings[k.Key]
	if !ok {
		return
	}
	switch b.Action {
	case ActionMove:
		if k.Pressed {
			s.bus.Publish(event.NewStartMoving(s.player, b.Direction))
		} else {
			s.bus.Publish(event.NewStopMoving(s.player, b.Direction))
		}
	case ActionSprint:
		s.bus.Publish(event.NewSprint(s.player, k.Pressed))
	case ActionYield:
		if k.Pressed {
			s.bus.Publish(event.NewYieldControl(s.player))
		}
	case ActionInteract:
		if k.Pressed && s.player != ecs.CameraEntity {
			s.bus.Publish(event.NewInteract(s.player))
		}
	}
}

// Close drops the service's subscriptions.
func (s *Service) Close() {
	s.bus.Unsubscribe(s, event.RawInputKey)
	s.bus.Unsubscribe(s, event.InputYieldControl)
}
