package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/component"
	"github.com/citysim/citysim/internal/core/ecs"
	coresys "github.com/citysim/citysim/internal/core/system"
	"github.com/citysim/citysim/internal/physics"
	"github.com/citysim/citysim/internal/render"
)

// RenderSystem keeps animations in step with movement and emits one
// sprite per entity. Phase 2 (Render).
type RenderSystem struct {
	world      *ecs.World
	phys       *ecs.Store[component.Physics]
	rends      *ecs.Store[component.Render]
	tilePixels float64
	alpha      float64
	log        *zap.Logger
}

func NewRenderSystem(world *ecs.World, phys *ecs.Store[component.Physics], rends *ecs.Store[component.Render], tilePixels float64, log *zap.Logger) *RenderSystem {
	if tilePixels <= 0 {
		tilePixels = 32
	}
	return &RenderSystem{world: world, phys: phys, rends: rends, tilePixels: tilePixels, alpha: 1, log: log}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseRender }

func (s *RenderSystem) Mask() ecs.Mask { return ecs.MaskOf(ecs.Physics, ecs.Render) }

// SetAlpha sets the interpolation factor between the previous and current
// physics positions used when drawing.
func (s *RenderSystem) SetAlpha(alpha float64) {
	s.alpha = min(max(alpha, 0), 1)
}

func (s *RenderSystem) TickEntity(id ecs.EntityID, dt time.Duration) {
	p := s.phys.Get(id)
	r := s.rends.Get(id)

	if d, ok := physics.DirectionOf(p.LastVelocity); ok {
		r.Anim.SetDirection(d)
	}
	if p.IsStopped() {
		r.Anim.Pause(true)
	} else {
		r.Anim.Play()
	}
	r.Anim.Tick(dt.Seconds())
}

func (s *RenderSystem) RenderEntity(id ecs.EntityID, target render.Surface) {
	p := s.phys.Get(id)
	if !p.HasBody() {
		ecs.Raise(s.log, "render", id, ecs.ErrMissingBody)
	}
	pos := p.PrevPosition.Lerp(p.Position(), s.alpha).Scale(s.tilePixels)

	sp := render.Sprite{
		Entity: s.world.Identifier(id),
		X:      pos.X,
		Y:      pos.Y,
	}
	r := s.rends.Get(id)
	if f, ok := r.Anim.Frame(); ok {
		sp.Animation = f.Animation
		sp.Frame = f.Index
		sp.Direction = f.Direction
	} else {
		sp.Direction = r.Anim.Direction()
	}
	target.DrawSprite(sp)
}
