package ecs

import "go.uber.org/zap"

// World is the top-level ECS container. It owns the fixed-capacity entity
// pool, the component store registry, and a deferred destruction queue
// flushed at the end of each tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []Ref
	log          *zap.Logger
}

func NewWorld(capacity int, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		pool:         NewEntityPool(capacity, log),
		registry:     NewRegistry(),
		destroyQueue: make([]Ref, 0, 64),
		log:          log,
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }
func (w *World) Capacity() int       { return w.pool.Capacity() }
func (w *World) Count() int          { return w.pool.Count() }

// Create returns the lowest free entity id. Exhausting the capacity is fatal.
func (w *World) Create() EntityID {
	return w.pool.Create()
}

// CreateTyped creates an entity and tags its immutable type.
func (w *World) CreateTyped(t EntityType) Identifier {
	id := w.pool.Create()
	w.pool.types[id] = t
	return Identifier{ID: id, Type: t}
}

// Kill releases the resources of the entity's attached components and
// clears its mask. Component memory is not zeroed.
func (w *World) Kill(id EntityID) {
	w.pool.validate(id, "kill")
	if m := w.pool.mask(id); m != 0 {
		w.registry.ReleaseAll(id, m)
	}
	w.pool.Kill(id)
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Mask returns the component mask of id.
func (w *World) Mask(id EntityID) Mask {
	w.pool.validate(id, "mask")
	return w.pool.mask(id) &^ aliveBit
}

// Identifier returns the id and type of a slot.
func (w *World) Identifier(id EntityID) Identifier {
	w.pool.validate(id, "identifier")
	return Identifier{ID: id, Type: w.pool.types[id]}
}

// Ref returns a generation-checked handle to id.
func (w *World) Ref(id EntityID) Ref {
	w.pool.validate(id, "ref")
	return Ref{ID: id, Gen: w.pool.generations[id]}
}

// Valid reports whether ref still names the same live entity.
func (w *World) Valid(ref Ref) bool {
	if ref.ID < 0 || int(ref.ID) >= w.pool.Capacity() {
		return false
	}
	return w.pool.masks[ref.ID] != 0 && w.pool.generations[ref.ID] == ref.Gen
}

// Snapshot appends the ids alive now, ascending, to dst[:0].
func (w *World) Snapshot(dst []EntityID) []EntityID {
	dst = dst[:0]
	for i, m := range w.pool.masks {
		if m != 0 {
			dst = append(dst, EntityID(i))
		}
	}
	return dst
}

// SnapshotRefs appends a ref to every entity alive now, ascending, to
// dst[:0]. Iterating refs instead of ids skips slots that die and get
// reused while the snapshot is being walked.
func (w *World) SnapshotRefs(dst []Ref) []Ref {
	dst = dst[:0]
	for i, m := range w.pool.masks {
		if m != 0 {
			dst = append(dst, Ref{ID: EntityID(i), Gen: w.pool.generations[i]})
		}
	}
	return dst
}

// AddComponent attaches a component by kind and returns a pointer to it.
func (w *World) AddComponent(id EntityID, kind ComponentType) any {
	return w.store(kind, "add component").attach(id)
}

// RemoveComponent detaches a component by kind.
func (w *World) RemoveComponent(id EntityID, kind ComponentType) {
	w.store(kind, "remove component").Remove(id)
}

// HasComponent reports whether a component kind is attached.
func (w *World) HasComponent(id EntityID, kind ComponentType) bool {
	w.pool.validate(id, "has component")
	if !kind.Valid() {
		Raise(w.log, "has component", id, ErrComponentKind)
	}
	return w.pool.mask(id).Has(kind)
}

func (w *World) store(kind ComponentType, op string) Attachable {
	s, ok := w.registry.Lookup(kind)
	if !kind.Valid() || !ok {
		Raise(w.log, op, Invalid, ErrComponentKind)
	}
	return s
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.pool.validate(id, "mark for destruction")
	w.destroyQueue = append(w.destroyQueue, w.Ref(id))
}

// FlushDestroyQueue kills all queued entities. Entities killed earlier in
// the tick, queued twice, or whose slot was reused since are skipped.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, ref := range w.destroyQueue {
		if w.Valid(ref) {
			w.Kill(ref.ID)
			n++
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}
