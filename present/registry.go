package present

import (
	"slices"
	"sync"
)

// Names of the presenters registered by NewRegistry.
const (
	NameImage   = "image"
	NameDiscard = "discard"
)

// Factory creates a presenter on demand.
type Factory func() Presenter

// Registry maps presenter names to factories.
//
// Thread safety: Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	priority  []string
}

// NewRegistry returns a registry holding the built-in presenters, with
// "image" preferred over "discard". Hosts register their own presenters
// (for example a TexturePresenter bound to their device) before creating
// a render context.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		priority:  []string{NameImage, NameDiscard},
	}
	r.Register(NameImage, func() Presenter { return NewImagePresenter() })
	r.Register(NameDiscard, func() Presenter { return Discard })
	return r
}

// Register adds or replaces the factory for name. Names registered by the
// host rank ahead of the built-in ones in BestName.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[name]; !ok && !slices.Contains(r.priority, name) {
		r.priority = slices.Insert(r.priority, 0, name)
	}
	r.factories[name] = f
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Get creates the presenter registered as name, or returns nil.
func (r *Registry) Get(name string) Presenter {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok || f == nil {
		return nil
	}
	return f()
}

// BestName returns the highest ranked registered name, or "" when the
// registry is empty.
func (r *Registry) BestName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.priority {
		if _, ok := r.factories[name]; ok {
			return name
		}
	}
	return ""
}

// Names returns the registered names in rank order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for _, name := range r.priority {
		if _, ok := r.factories[name]; ok {
			names = append(names, name)
		}
	}
	return names
}
