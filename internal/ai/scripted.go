package ai

import (
	"math/rand"
	"time"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/physics"
	"github.com/citysim/citysim/internal/scripting"
)

const defaultWanderInterval = 2 * time.Second

// Sensor reports the entity's current position and velocity in tiles. ok
// is false when the entity has no body.
type Sensor func() (pos, vel physics.Vec2, ok bool)

// ScriptedConfig tunes autonomous brains.
type ScriptedConfig struct {
	WanderInterval   time.Duration
	SprintMultiplier float64
}

// ScriptedBrain drives an entity without player input. Each decision is
// asked of the Lua entity_ai function; without a script (or when it
// fails) the brain wanders, changing direction every WanderInterval.
type ScriptedBrain struct {
	ident   ecs.Identifier
	engine  *scripting.Engine
	sense   Sensor
	cfg     ScriptedConfig
	rng     *rand.Rand
	elapsed time.Duration
	next    time.Duration
	wander  physics.Vec2
}

// NewScriptedBrain creates an autonomous brain. engine and sense may be
// nil. The wander sequence is seeded by the entity id so runs repeat.
func NewScriptedBrain(ident ecs.Identifier, engine *scripting.Engine, sense Sensor, cfg ScriptedConfig) *ScriptedBrain {
	if cfg.WanderInterval <= 0 {
		cfg.WanderInterval = defaultWanderInterval
	}
	if cfg.SprintMultiplier <= 0 {
		cfg.SprintMultiplier = 1
	}
	return &ScriptedBrain{
		ident:  ident,
		engine: engine,
		sense:  sense,
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(int64(ident.ID) + 1)),
	}
}

func (b *ScriptedBrain) Entity() ecs.EntityID { return b.ident.ID }

func (b *ScriptedBrain) Decide(dt time.Duration) Intent {
	b.elapsed += dt
	if b.engine != nil {
		if cmd, ok := b.engine.RunEntityAI(b.context(dt)); ok {
			return b.fromCommand(cmd)
		}
	}
	return Intent{Steering: b.wanderStep()}
}

func (b *ScriptedBrain) context(dt time.Duration) scripting.AIContext {
	ctx := scripting.AIContext{
		EntityID: int(b.ident.ID),
		Type:     b.ident.Type.String(),
		Elapsed:  b.elapsed.Seconds(),
		Dt:       dt.Seconds(),
	}
	if b.sense != nil {
		if pos, vel, ok := b.sense(); ok {
			ctx.X, ctx.Y = pos.X, pos.Y
			ctx.VX, ctx.VY = vel.X, vel.Y
		}
	}
	return ctx
}

func (b *ScriptedBrain) fromCommand(cmd scripting.AICommand) Intent {
	if cmd.Type != "move" {
		return Intent{}
	}
	v := physics.Vec2{X: cmd.DX, Y: cmd.DY}.Normalize()
	if cmd.Sprint {
		v = v.Scale(b.cfg.SprintMultiplier)
	}
	return Intent{Steering: v}
}

// wanderStep picks one of the four directions, or standing still, each
// time the interval elapses.
func (b *ScriptedBrain) wanderStep() physics.Vec2 {
	if b.elapsed < b.next {
		return b.wander
	}
	b.next = b.elapsed + b.cfg.WanderInterval
	if choice := b.rng.Intn(5); choice < 4 {
		b.wander = physics.Direction(choice).Vector()
	} else {
		b.wander = physics.Vec2{}
	}
	return b.wander
}
