package builtins

import (
	"sync"

	"github.com/cloudcmds/framevm/object"
	"github.com/cloudcmds/framevm/scope"
)

// Registry is an immutable set of built-in functions. Every VM resolves
// names that are not bound anywhere else through its registry.
type Registry struct {
	layer *scope.Scope
}

// NewRegistry returns a registry holding a copy of the given bindings.
func NewRegistry(entries map[string]object.Object) *Registry {
	return &Registry{layer: scope.Frozen("builtins", entries)}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry of standard built-ins. It is
// built on first use and shared by every caller.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(Builtins())
	})
	return defaultRegistry
}

// With returns a new registry holding this registry's entries plus extra.
// Entries in extra replace entries with the same name.
func (r *Registry) With(extra map[string]object.Object) *Registry {
	entries := map[string]object.Object{}
	for _, name := range r.layer.Names() {
		entries[name], _ = r.layer.Local(name)
	}
	for name, value := range extra {
		entries[name] = value
	}
	return NewRegistry(entries)
}

// Lookup returns the built-in bound to name.
func (r *Registry) Lookup(name string) (object.Object, bool) {
	return r.layer.Local(name)
}

// Names returns the sorted names in the registry.
func (r *Registry) Names() []string {
	return r.layer.Names()
}

// Layer returns the frozen scope layer holding the built-ins. It is the
// outermost layer of every scope chain built by the VM.
func (r *Registry) Layer() *scope.Scope {
	return r.layer
}
