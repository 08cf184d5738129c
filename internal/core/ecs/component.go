package ecs

import "strings"

// ComponentType is a single component kind bit.
type ComponentType uint8

const (
	Physics ComponentType = 1 << iota
	Render
	Input
)

// ComponentUnknown is the empty component type.
const ComponentUnknown ComponentType = 0

// ComponentTypes lists every known kind in bit order.
func ComponentTypes() []ComponentType {
	return []ComponentType{Physics, Render, Input}
}

func (c ComponentType) String() string {
	switch c {
	case Physics:
		return "physics"
	case Render:
		return "render"
	case Input:
		return "input"
	}
	return "unknown"
}

// Valid reports whether c is exactly one known kind.
func (c ComponentType) Valid() bool {
	return c == Physics || c == Render || c == Input
}

// Mask is a set of component kinds.
type Mask uint8

// aliveBit marks an occupied slot so that an entity with no components is
// still alive. It is never exposed through Mask().
const aliveBit Mask = 1 << 7

const componentBits = Mask(Physics | Render | Input)

// MaskOf builds a mask from component kinds.
func MaskOf(kinds ...ComponentType) Mask {
	var m Mask
	for _, k := range kinds {
		m |= Mask(k)
	}
	return m
}

// Has reports whether kind c is in the mask.
func (m Mask) Has(c ComponentType) bool { return m&Mask(c) != 0 }

// Contains reports whether m is a superset of other.
func (m Mask) Contains(other Mask) bool { return m&other == other }

// Empty reports whether no component bit is set.
func (m Mask) Empty() bool { return m&componentBits == 0 }

func (m Mask) String() string {
	if m.Empty() {
		return "{}"
	}
	var parts []string
	for _, c := range ComponentTypes() {
		if m.Has(c) {
			parts = append(parts, c.String())
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Resetter is implemented by component types that have non-zero defaults.
type Resetter interface {
	Reset()
}

// Releaser is implemented by component types holding a resource that must
// be freed when the component is detached (e.g. a physics body).
type Releaser interface {
	Release()
}

// Store is a fixed-size array of one component kind, indexed by EntityID.
// The world's mask is the only source of truth for whether a slot is
// attached; slot contents of a detached id are stale and must not be read.
type Store[T any] struct {
	world *World
	kind  ComponentType
	data  []T
}

// NewStore creates a store for kind and registers it with w so killed
// entities release their resources.
func NewStore[T any](w *World, kind ComponentType) *Store[T] {
	if !kind.Valid() {
		Raise(w.log, "new store", Invalid, ErrComponentKind)
	}
	s := &Store[T]{
		world: w,
		kind:  kind,
		data:  make([]T, w.Capacity()),
	}
	w.registry.Register(kind, s)
	return s
}

// Kind returns the component kind this store holds.
func (s *Store[T]) Kind() ComponentType { return s.kind }

// Add attaches the component and resets it to its default state. Adding an
// already attached component releases it first and resets it again.
func (s *Store[T]) Add(id EntityID) *T {
	s.world.pool.validate(id, "add "+s.kind.String())
	if s.world.pool.mask(id).Has(s.kind) {
		s.release(id)
	}
	s.world.pool.setBits(id, Mask(s.kind))

	c := &s.data[id]
	var zero T
	*c = zero
	if r, ok := any(c).(Resetter); ok {
		r.Reset()
	}
	return c
}

// Remove detaches the component, releasing any resource it holds. The slot
// memory is left in place.
func (s *Store[T]) Remove(id EntityID) {
	s.world.pool.validate(id, "remove "+s.kind.String())
	if !s.world.pool.mask(id).Has(s.kind) {
		return
	}
	s.release(id)
	s.world.pool.clearBits(id, Mask(s.kind))
}

// Has reports whether the component is attached.
func (s *Store[T]) Has(id EntityID) bool {
	s.world.pool.validate(id, "has "+s.kind.String())
	return s.world.pool.mask(id).Has(s.kind)
}

// Get returns the attached component. Callers must check Has first; a
// detached slot raises ErrComponentMissing instead of exposing stale memory.
func (s *Store[T]) Get(id EntityID) *T {
	if !s.Has(id) {
		Raise(s.world.log, "get "+s.kind.String(), id, ErrComponentMissing)
	}
	return &s.data[id]
}

// Lookup returns the attached component, or false.
func (s *Store[T]) Lookup(id EntityID) (*T, bool) {
	if id < 0 || int(id) >= len(s.data) || !s.world.pool.mask(id).Has(s.kind) {
		return nil, false
	}
	return &s.data[id], true
}

// Len returns the number of attached components.
func (s *Store[T]) Len() int {
	n := 0
	for id := range s.data {
		if s.world.pool.mask(EntityID(id)).Has(s.kind) {
			n++
		}
	}
	return n
}

// Each calls fn for every attached component in id order.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for id := range s.data {
		if s.world.pool.mask(EntityID(id)).Has(s.kind) {
			fn(EntityID(id), &s.data[id])
		}
	}
}

func (s *Store[T]) release(id EntityID) {
	if r, ok := any(&s.data[id]).(Releaser); ok {
		r.Release()
	}
}
