package ecs

type namedStore struct {
	name  string
	store Removable
}

// Registry tracks all component stores and supports bulk cleanup on entity destroy.
type Registry struct {
	stores []namedStore
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]namedStore, 0, 16),
	}
}

// Register adds a component store to the registry under a diagnostic name.
func (r *Registry) Register(name string, store Removable) {
	r.stores = append(r.stores, namedStore{name: name, store: store})
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.store.Remove(id)
	}
}

// Holders returns the names of the stores that still hold a component for id.
// Used by invariant checks after commit.
func (r *Registry) Holders(id EntityID) []string {
	var out []string
	for _, s := range r.stores {
		if s.store.Has(id) {
			out = append(out, s.name)
		}
	}
	return out
}
