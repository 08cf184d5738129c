package system

import (
	"sort"
	"time"

	"github.com/citysim/citysim/internal/core/ecs"
	"github.com/citysim/citysim/internal/render"
)

// Runner executes systems in phase order each tick, dispatching every
// matching entity to each system in turn.
type Runner struct {
	world   *ecs.World
	systems []System
	sorted  bool
	refs    []ecs.Ref
}

func NewRunner(world *ecs.World) *Runner {
	return &Runner{
		world:   world,
		systems: make([]System, 0, 8),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Systems returns the registered systems in execution order.
func (r *Runner) Systems() []System {
	r.ensureSorted()
	return r.systems
}

func (r *Runner) Tick(dt time.Duration) {
	r.ensureSorted()
	for _, s := range r.systems {
		r.tick(s, dt)
	}
}

func (r *Runner) tick(s System, dt time.Duration) {
	hooks, _ := s.(TickHooks)
	if hooks != nil {
		hooks.BeginTick(dt)
	}
	r.each(s.Mask(), func(id ecs.EntityID) {
		s.TickEntity(id, dt)
	})
	if hooks != nil {
		hooks.EndTick(dt)
	}
}

// Render asks every system to draw its entities onto target.
func (r *Runner) Render(target render.Surface) {
	r.ensureSorted()
	for _, s := range r.systems {
		r.each(s.Mask(), func(id ecs.EntityID) {
			s.RenderEntity(id, target)
		})
	}
}

// each visits the entities alive at the start of the pass. Entities killed
// during the pass, or whose slot was reused, are skipped; entities created
// during the pass wait for the next one.
func (r *Runner) each(mask ecs.Mask, fn func(ecs.EntityID)) {
	if mask == MaskNone {
		return
	}
	r.refs = r.world.SnapshotRefs(r.refs)
	for _, ref := range r.refs {
		if !r.world.Valid(ref) {
			continue
		}
		if !r.world.Mask(ref.ID).Contains(mask) {
			continue
		}
		fn(ref.ID)
	}
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
