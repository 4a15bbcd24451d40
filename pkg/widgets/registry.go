package widgets

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-guigen/pkg/diag"
)

// Registry stores widget kinds by name. Registered kinds are immutable;
// lookups hand out shared pointers.
type Registry struct {
	mu    sync.RWMutex
	kinds map[string]*Kind
}

// NewRegistry constructs a registry with the built-in kinds and the bundled
// catalogue registered.
func NewRegistry() *Registry {
	reg := NewEmptyRegistry()
	reg.registerBuiltins()
	if err := reg.LoadFS(EmbeddedFS()); err != nil {
		panic(err)
	}
	return reg
}

// NewEmptyRegistry constructs a registry without any kinds.
func NewEmptyRegistry() *Registry {
	return &Registry{kinds: make(map[string]*Kind)}
}

// Register validates and adds a kind. Duplicate names return an error.
func (r *Registry) Register(kind Kind) error {
	if kind.Name == "" {
		return fmt.Errorf("widgets: kind name is required")
	}
	kind.Params = append([]ParamSpec(nil), kind.Params...)
	kind.Accepts = append(kind.Accepts[:0:0], kind.Accepts...)
	if err := kind.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.kinds[kind.Name]; exists {
		return fmt.Errorf("widgets: kind %q already registered", kind.Name)
	}
	r.kinds[kind.Name] = &kind
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(kind Kind) {
	if err := r.Register(kind); err != nil {
		panic(err)
	}
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (*Kind, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kind, ok := r.kinds[name]
	return kind, ok
}

// Get retrieves a kind by name.
func (r *Registry) Get(name string) (*Kind, error) {
	kind, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("widgets: kind %q not found", name)
	}
	return kind, nil
}

// Has reports whether a kind is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// List returns a sorted list of kind names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kinds returns every registered kind sorted by name.
func (r *Registry) Kinds() []*Kind {
	names := r.List()
	out := make([]*Kind, 0, len(names))
	for _, name := range names {
		if kind, ok := r.Lookup(name); ok {
			out = append(out, kind)
		}
	}
	return out
}

// Suggest returns a "did you mean" hint for an unknown kind name.
func (r *Registry) Suggest(name string) string {
	return diag.SuggestFrom(name, r.List(), 2)
}
