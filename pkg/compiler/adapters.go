package compiler

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-guigen/internal/gosource"
	"github.com/goliatone/go-guigen/internal/openapi"
	"github.com/goliatone/go-guigen/pkg/schema"
)

// AdapterRegistry stores schema adapters by name.
type AdapterRegistry struct {
	mu       sync.RWMutex
	adapters map[string]schema.Adapter
}

// NewAdapterRegistry creates an empty adapter registry.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{adapters: make(map[string]schema.Adapter)}
}

// DefaultAdapters returns a registry holding the Go source, schema document
// and OpenAPI adapters.
func DefaultAdapters() *AdapterRegistry {
	reg := NewAdapterRegistry()
	reg.MustRegister(gosource.NewAdapter())
	reg.MustRegister(schema.NewDocumentAdapter())
	reg.MustRegister(openapi.NewAdapter())
	return reg
}

// Register adds an adapter under its Name(). Duplicate names are rejected.
func (r *AdapterRegistry) Register(adapter schema.Adapter) error {
	if adapter == nil {
		return fmt.Errorf("compiler: adapter is required")
	}
	name := adapterKey(adapter.Name())
	if name == "" {
		return fmt.Errorf("compiler: adapter name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("compiler: adapter %q already registered", name)
	}
	r.adapters[name] = adapter
	return nil
}

// MustRegister panics on registration failure.
func (r *AdapterRegistry) MustRegister(adapter schema.Adapter) {
	if err := r.Register(adapter); err != nil {
		panic(err)
	}
}

// Get retrieves an adapter by name.
func (r *AdapterRegistry) Get(name string) (schema.Adapter, error) {
	key := adapterKey(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[key]
	if !ok {
		return nil, fmt.Errorf("compiler: adapter %q not found (available: %s)", key, strings.Join(r.namesLocked(), ", "))
	}
	return adapter, nil
}

// List returns the sorted adapter names.
func (r *AdapterRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

// Detect returns the adapters claiming src, in name order.
func (r *AdapterRegistry) Detect(src schema.Source, raw []byte) []schema.Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []schema.Adapter
	for _, name := range r.namesLocked() {
		if adapter := r.adapters[name]; adapter.Detect(src, raw) {
			matches = append(matches, adapter)
		}
	}
	return matches
}

func (r *AdapterRegistry) namesLocked() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func adapterKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func adapterNames(adapters []schema.Adapter) string {
	names := make([]string, 0, len(adapters))
	for _, adapter := range adapters {
		names = append(names, adapter.Name())
	}
	return strings.Join(names, ", ")
}
