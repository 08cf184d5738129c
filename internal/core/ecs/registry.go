package ecs

// Attachable is implemented by every component store so the World can
// resolve a store by kind and release an entity's resources on kill.
type Attachable interface {
	Kind() ComponentType
	Has(id EntityID) bool
	Remove(id EntityID)
	attach(id EntityID) any
	release(id EntityID)
}

func (s *Store[T]) attach(id EntityID) any { return s.Add(id) }

// Registry tracks the component store of each kind.
type Registry struct {
	stores [8]Attachable
}

func NewRegistry() *Registry {
	return &Registry{}
}

func bitIndex(kind ComponentType) int {
	for i := 0; i < 8; i++ {
		if kind == 1<<i {
			return i
		}
	}
	return -1
}

// Register binds a store to its component kind, replacing any previous one.
func (r *Registry) Register(kind ComponentType, store Attachable) {
	r.stores[bitIndex(kind)] = store
}

// Lookup returns the store for kind, if one is registered.
func (r *Registry) Lookup(kind ComponentType) (Attachable, bool) {
	i := bitIndex(kind)
	if i < 0 || r.stores[i] == nil {
		return nil, false
	}
	return r.stores[i], true
}

// ReleaseAll frees the resources of every component of id named in mask.
func (r *Registry) ReleaseAll(id EntityID, mask Mask) {
	for _, kind := range ComponentTypes() {
		if !mask.Has(kind) {
			continue
		}
		if s, ok := r.Lookup(kind); ok {
			s.release(id)
		}
	}
}
