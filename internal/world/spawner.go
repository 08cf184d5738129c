// Package world reacts to world-level human events: joining, dying and
// interacting, and keeps a spatial index of the population.
package world

import (
	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/core/event"
	"github.com/citysim/citysim/internal/entity"
	"github.com/citysim/citysim/internal/physics"
)

// interactRange is the farthest an entity can reach, in tiles.
const interactRange = 1.5

// Interaction records one successful HumanInteract.
type Interaction struct {
	Actor, Target ecs.EntityID
}

// Spawner handles human lifecycle events for one world.
type Spawner struct {
	worldID   int
	prototype string
	bus       *event.Bus
	entities  *entity.Service
	grid      *Grid
	nearby    []ecs.EntityID
	last      []Interaction
	log       *zap.Logger
}

// NewSpawner subscribes a spawner for worldID. Humans joining without an
// existing entity are built from prototype.
func NewSpawner(worldID int, prototype string, bus *event.Bus, entities *entity.Service, log *zap.Logger) *Spawner {
	s := &Spawner{
		worldID:   worldID,
		prototype: prototype,
		bus:       bus,
		entities:  entities,
		grid:      NewGrid(),
		log:       log,
	}
	bus.Subscribe(s, event.HumanJoinWorld)
	bus.Subscribe(s, event.HumanDeath)
	bus.Subscribe(s, event.HumanInteract)
	return s
}

func (s *Spawner) WorldID() int { return s.worldID }

func (s *Spawner) OnEvent(ev event.Event) {
	switch ev.Kind {
	case event.HumanJoinWorld:
		s.onJoin(ev.Entity, ev.Payload.(event.JoinWorld))
	case event.HumanDeath:
		s.onDeath(ev.Entity)
	case event.HumanInteract:
		s.onInteract(ev.Entity)
	}
}

// alive reports whether id names a live entity. Handles such as the camera
// are never alive.
func (s *Spawner) alive(id ecs.EntityID) bool {
	return id >= 0 && int(id) < s.entities.World().Capacity() && s.entities.Alive(id)
}

func (s *Spawner) onJoin(id ecs.EntityID, p event.JoinWorld) {
	if p.WorldID != s.worldID {
		s.log.Debug("join event for another world", zap.Int("world", p.WorldID))
		return
	}
	tile := physics.Vec2{X: float64(p.SpawnX), Y: float64(p.SpawnY)}

	if s.alive(id) {
		phys, ok := s.entities.LookupPhysics(id)
		if !ok || !phys.HasBody() {
			s.log.Warn("joining entity has no body", zap.Int32("entity", int32(id)))
			return
		}
		phys.Body.SetPosition(tile)
		phys.PrevPosition = tile
		if r, ok := s.entities.LookupRender(id); ok {
			r.Anim.SetDirection(p.SpawnDirection)
		}
		s.log.Debug("entity joined world", zap.Int32("entity", int32(id)), zap.Int("world", p.WorldID))
		return
	}

	ident, err := s.entities.Spawn(ecs.TypeHuman, s.prototype, tile, p.SpawnDirection)
	if err != nil {
		s.log.Warn("could not spawn joining human", zap.Error(err))
		return
	}
	s.log.Debug("human joined world", zap.Stringer("entity", ident), zap.Int("world", p.WorldID))
}

func (s *Spawner) onDeath(id ecs.EntityID) {
	if !s.alive(id) {
		return
	}
	s.entities.MarkForDestruction(id)
}

func (s *Spawner) onInteract(id ecs.EntityID) {
	if !s.alive(id) {
		return
	}
	actor, ok := s.entities.LookupPhysics(id)
	if !ok || !actor.HasBody() {
		return
	}
	pos := actor.Position()
	x, y := actor.TilePosition()

	target := ecs.Invalid
	best := interactRange * interactRange
	s.nearby = s.grid.Nearby(s.nearby[:0], x, y)
	for _, other := range s.nearby {
		if other == id || !s.alive(other) {
			continue
		}
		p, ok := s.entities.LookupPhysics(other)
		if !ok || !p.HasBody() {
			continue
		}
		if d := p.Position().Sub(pos).Len2(); d <= best {
			best = d
			target = other
		}
	}
	if target == ecs.Invalid {
		s.log.Debug("interact with nothing", zap.Int32("entity", int32(id)))
		return
	}
	s.last = append(s.last, Interaction{Actor: id, Target: target})
	s.log.Debug("interact", zap.Int32("entity", int32(id)), zap.Int32("target", int32(target)))
}

// Reindex rebuilds the spatial index from the current body positions.
// Call once per frame after the entity tick.
func (s *Spawner) Reindex() {
	s.grid.Clear()
	ecs.Each(s.entities.World(), ecs.MaskOf(ecs.Physics), func(id ecs.EntityID) {
		p, _ := s.entities.LookupPhysics(id)
		if !p.HasBody() {
			return
		}
		x, y := p.TilePosition()
		s.grid.Add(id, x, y)
	})
}

// TakeInteractions returns the interactions resolved since the previous
// call and forgets them.
func (s *Spawner) TakeInteractions() []Interaction {
	out := s.last
	s.last = nil
	return out
}

// Grid exposes the spatial index.
func (s *Spawner) Grid() *Grid { return s.grid }

func (s *Spawner) Close() {
	s.bus.Unsubscribe(s, event.HumanJoinWorld)
	s.bus.Unsubscribe(s, event.HumanDeath)
	s.bus.Unsubscribe(s, event.HumanInteract)
}
