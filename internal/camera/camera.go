// Package camera keeps the view centered on a tracked entity, or lets it
// roam freely under its own movement controller when nothing is tracked.
package camera

import (
	"time"

	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/ai"
	"github.com/citysim/citysim/internal/component"
	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/core/event"
	"github.com/citysim/citysim/internal/physics"
	"github.com/citysim/citysim/internal/render"
)

// Entities is the part of the entity runtime the camera consults.
type Entities interface {
	World() *ecs.World
	LookupPhysics(id ecs.EntityID) (*component.Physics, bool)
}

type Config struct {
	Speed            float64 // free-roam tiles per second
	SprintMultiplier float64
	Zoom             float64
	Width, Height    int // screen units
}

// Service is the camera. It listens for yield-control and death events so
// it lets go of an entity that no longer wants or can be followed.
type Service struct {
	entities Entities
	ctrl     *ai.MovementController
	bus      *event.Bus
	cfg      Config
	center   physics.Vec2
	tracked  ecs.Ref
	tracking bool
	log      *zap.Logger
}

func NewService(bus *event.Bus, entities Entities, cfg Config, log *zap.Logger) *Service {
	if cfg.Zoom <= 0 {
		cfg.Zoom = 1
	}
	s := &Service{
		entities: entities,
		ctrl:     ai.NewMovementController(bus, ecs.CameraEntity, cfg.SprintMultiplier),
		bus:      bus,
		cfg:      cfg,
		tracked:  ecs.NoRef,
		log:      log,
	}
	bus.Subscribe(s, event.InputYieldControl)
	bus.Subscribe(s, event.HumanDeath)
	return s
}

// SetTrackedEntity follows id. An entity without a physics body cannot be
// followed; the camera then keeps roaming freely.
func (s *Service) SetTrackedEntity(id ecs.EntityID) {
	p, ok := s.entities.LookupPhysics(id)
	if !ok || !p.HasBody() {
		s.log.Warn("could not track entity as it doesn't have a physics component",
			zap.Int32("entity", int32(id)))
		return
	}
	s.tracked = s.entities.World().Ref(id)
	s.tracking = true
	s.center = p.Position()
	s.ctrl.Disable()
	s.log.Debug("started tracking entity", zap.Int32("entity", int32(id)))
}

// ClearTrackedEntity returns the camera to free roaming.
func (s *Service) ClearTrackedEntity() {
	if s.tracking {
		s.log.Debug("stopped tracking entity", zap.Int32("entity", int32(s.tracked.ID)))
	}
	s.tracking = false
	s.tracked = ecs.NoRef
	s.ctrl.Enable()
}

// Tracked returns the followed entity, if any.
func (s *Service) Tracked() (ecs.EntityID, bool) {
	if !s.tracking {
		return ecs.Invalid, false
	}
	return s.tracked.ID, true
}

func (s *Service) Tick(dt time.Duration) {
	if s.tracking {
		if !s.entities.World().Valid(s.tracked) {
			s.log.Warn("tracked entity is gone", zap.Int32("entity", int32(s.tracked.ID)))
			s.ClearTrackedEntity()
			return
		}
		if p, ok := s.entities.LookupPhysics(s.tracked.ID); ok && p.HasBody() {
			s.center = p.Position()
			return
		}
		s.ClearTrackedEntity()
		return
	}
	s.center = s.center.Add(s.ctrl.Steering().Scale(s.cfg.Speed * dt.Seconds()))
}

func (s *Service) OnEvent(ev event.Event) {
	if !s.tracking || ev.Entity != s.tracked.ID {
		return
	}
	switch ev.Kind {
	case event.InputYieldControl, event.HumanDeath:
		s.ClearTrackedEntity()
	}
}

// SetCenter moves the free camera.
func (s *Service) SetCenter(c physics.Vec2) { s.center = c }

func (s *Service) Center() physics.Vec2 { return s.center }

// SetSize updates the screen size after a resize.
func (s *Service) SetSize(w, h int) {
	s.cfg.Width, s.cfg.Height = w, h
}

// SetZoom sets the zoom factor; non-positive values are ignored.
func (s *Service) SetZoom(z float64) {
	if z > 0 {
		s.cfg.Zoom = z
	}
}

func (s *Service) View() render.View {
	return render.View{Center: s.center, Width: s.cfg.Width, Height: s.cfg.Height, Zoom: s.cfg.Zoom}
}

// Close drops the camera's event subscriptions.
func (s *Service) Close() {
	s.ctrl.Disable()
	s.bus.Unsubscribe(s, event.InputYieldControl)
	s.bus.Unsubscribe(s, event.HumanDeath)
}
