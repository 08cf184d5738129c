package physics

import (
	"github.com/ByteArena/box2d"
	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/core/ecs"
)

// Fixture constants for entity bodies: a box over the lower half of the
// tile, 2px (of 32) inset on each side.
const (
	entityFriction = 0.5
	entityDensity  = 985.0
	entityInset    = 28.0 / 32.0
)

// Config holds solver parameters.
type Config struct {
	VelocityIterations int
	PositionIterations int
	EntityScale        float64 // body size in tiles
}

// BodyDataKind tags what a fixture's user data refers to.
type BodyDataKind uint8

const (
	BodyDataUnknown BodyDataKind = iota
	BodyDataEntity
	BodyDataBlock
)

// BodyData is attached to every fixture so a contact can be mapped back to
// the entity that owns it.
type BodyData struct {
	Kind   BodyDataKind
	Entity ecs.Identifier
}

// BodyDef describes a dynamic body to create.
type BodyDef struct {
	Position      Vec2
	FixedRotation bool
	Data          BodyData
}

// World owns the box2d world. Bodies are created and destroyed only
// through it; components hold *Body wrappers, never box2d pointers.
type World struct {
	b2     box2d.B2World
	cfg    Config
	bodies int
	log    *zap.Logger
}

func NewWorld(cfg Config, log *zap.Logger) *World {
	if cfg.VelocityIterations <= 0 {
		cfg.VelocityIterations = 6
	}
	if cfg.PositionIterations <= 0 {
		cfg.PositionIterations = 2
	}
	if cfg.EntityScale <= 0 {
		cfg.EntityScale = 1
	}
	return &World{
		b2:  box2d.MakeB2World(box2d.MakeB2Vec2(0, 0)),
		cfg: cfg,
		log: log,
	}
}

// CreateBody creates a dynamic body with no fixtures.
func (w *World) CreateBody(def BodyDef) *Body {
	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_dynamicBody
	bd.Position = toB2(def.Position)
	bd.FixedRotation = def.FixedRotation

	data := def.Data
	b := &Body{world: w, data: &data}
	b.b2 = w.b2.CreateBody(&bd)
	b.b2.SetUserData(b.data)
	w.bodies++
	return b
}

// CreateEntityBody creates the standard entity body at a tile position:
// fixed rotation, one box fixture tagged with the owning entity.
func (w *World) CreateEntityBody(ident ecs.Identifier, tile Vec2) *Body {
	b := w.CreateBody(BodyDef{
		Position:      tile,
		FixedRotation: true,
		Data:          BodyData{Kind: BodyDataEntity, Entity: ident},
	})

	scale := w.cfg.EntityScale / 2
	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBoxFromCenterAndAngle(
		scale*entityInset,
		scale*0.5,
		box2d.MakeB2Vec2(0, scale*0.75),
		0,
	)

	fd := box2d.MakeB2FixtureDef()
	fd.Friction = entityFriction
	fd.Density = entityDensity
	fd.Shape = &shape
	fd.UserData = b.data
	b.b2.CreateFixtureFromDef(&fd)
	return b
}

// Step integrates the world by dt seconds.
func (w *World) Step(dt float64) {
	w.b2.Step(dt, w.cfg.VelocityIterations, w.cfg.PositionIterations)
}

// BodyCount returns the number of live bodies created through w.
func (w *World) BodyCount() int { return w.bodies }

func (w *World) destroy(b *box2d.B2Body) {
	w.b2.DestroyBody(b)
	w.bodies--
}

// ResolveEntity maps a body back to the entity that owns it.
func ResolveEntity(b *Body) (ecs.Identifier, bool) {
	if b == nil || b.b2 == nil {
		return ecs.NoIdentifier, false
	}
	fix := b.b2.GetFixtureList()
	if fix == nil {
		return ecs.NoIdentifier, false
	}
	data, ok := fix.GetUserData().(*BodyData)
	if !ok || data == nil || data.Kind != BodyDataEntity {
		return ecs.NoIdentifier, false
	}
	return data.Entity, true
}
