package ai

import (
	"go.uber.org/zap"

	"github.com/citysim/citysim/internal/core/ecs"
)

type slot struct {
	brain Brain
	gen   uint32
	used  bool
}

// Pool owns every attached brain. Components refer to their brain through
// a Handle so the pool stays the single owner.
type Pool struct {
	slots []slot
	free  []int
	log   *zap.Logger
}

func NewPool(log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{log: log}
}

// Handle refers to a brain in a Pool. The zero Handle refers to nothing.
type Handle struct {
	pool  *Pool
	index int
	gen   uint32
}

// Attach takes ownership of b and returns its handle.
func (p *Pool) Attach(b Brain) Handle {
	var i int
	if n := len(p.free); n > 0 {
		i = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		p.slots = append(p.slots, slot{})
		i = len(p.slots) - 1
	}
	s := &p.slots[i]
	s.brain = b
	s.used = true
	p.log.Debug("brain attached", zap.Int32("entity", int32(b.Entity())), zap.Int("slot", i))
	return Handle{pool: p, index: i, gen: s.gen}
}

// Len returns the number of attached brains.
func (p *Pool) Len() int { return len(p.slots) - len(p.free) }

// Controller returns the brain currently controlling entity id.
func (p *Pool) Controller(id ecs.EntityID) (Brain, bool) {
	for i := range p.slots {
		s := &p.slots[i]
		if s.used && s.brain.Entity() == id {
			return s.brain, true
		}
	}
	return nil, false
}

func (h Handle) slot() *slot {
	if h.pool == nil || h.index < 0 || h.index >= len(h.pool.slots) {
		return nil
	}
	s := &h.pool.slots[h.index]
	if !s.used || s.gen != h.gen {
		return nil
	}
	return s
}

// Valid reports whether the handle still refers to an attached brain.
func (h Handle) Valid() bool { return h.slot() != nil }

// Brain returns the referenced brain.
func (h Handle) Brain() (Brain, bool) {
	s := h.slot()
	if s == nil {
		return nil, false
	}
	return s.brain, true
}

// Release detaches the brain, disabling its event subscriptions, and
// frees the slot. Safe to call on a stale or zero handle.
func (h Handle) Release() {
	s := h.slot()
	if s == nil {
		return
	}
	if d, ok := s.brain.(Disabler); ok {
		d.Disable()
	}
	s.brain = nil
	s.used = false
	s.gen++
	h.pool.free = append(h.pool.free, h.index)
}
