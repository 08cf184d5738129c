package ecs

import "go.uber.org/zap"

// EntityPool is the fixed-capacity entity table: one component mask, type
// and generation per slot. Allocation is a first-fit scan so the lowest free
// slot is always reused first.
type EntityPool struct {
	masks       []Mask
	types       []EntityType
	generations []uint32
	count       int
	log         *zap.Logger
}

func NewEntityPool(capacity int, log *zap.Logger) *EntityPool {
	return &EntityPool{
		masks:       make([]Mask, capacity),
		types:       make([]EntityType, capacity),
		generations: make([]uint32, capacity),
		log:         log,
	}
}

func (p *EntityPool) Capacity() int { return len(p.masks) }

func (p *EntityPool) Count() int { return p.count }

// Create claims the lowest free slot.
func (p *EntityPool) Create() EntityID {
	if p.count == len(p.masks) {
		Raise(p.log, "create", Invalid, ErrCapacity)
	}
	for i, m := range p.masks {
		if m == 0 {
			p.masks[i] = aliveBit
			p.types[i] = TypeUnknown
			p.count++
			return EntityID(i)
		}
	}
	// count and masks disagree
	Raise(p.log, "create", Invalid, ErrCapacity)
	return Invalid
}

// Kill frees the slot. Killing a dead slot is a no-op.
func (p *EntityPool) Kill(id EntityID) {
	p.validate(id, "kill")
	if p.masks[id] == 0 {
		return
	}
	p.count--
	p.masks[id] = 0
	p.generations[id]++
}

func (p *EntityPool) Alive(id EntityID) bool {
	p.validate(id, "alive")
	return p.masks[id] != 0
}

func (p *EntityPool) validate(id EntityID, op string) {
	if id < 0 || int(id) >= len(p.masks) {
		Raise(p.log, op, id, ErrOutOfRange)
	}
}

func (p *EntityPool) mask(id EntityID) Mask { return p.masks[id] }

func (p *EntityPool) setBits(id EntityID, m Mask) {
	if p.masks[id] == 0 {
		// attaching to a dead slot revives it
		p.count++
		p.types[id] = TypeUnknown
	}
	p.masks[id] |= m | aliveBit
}

func (p *EntityPool) clearBits(id EntityID, m Mask) { p.masks[id] &^= m }
