package sink

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry stores sinks by name, providing discovery and duplication
// safeguards.
type Registry struct {
	mu    sync.RWMutex
	sinks map[string]Sink
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		sinks: make(map[string]Sink),
	}
}

// DefaultRegistry returns a registry holding the built-in sinks. Template
// backed sinks that fail to initialise surface the error here.
func DefaultRegistry() (*Registry, error) {
	registry := NewRegistry()
	registry.MustRegister(NewRST())
	registry.MustRegister(NewJSON())

	markdown, err := NewMarkdown()
	if err != nil {
		return nil, err
	}
	if err := registry.Register(markdown); err != nil {
		return nil, err
	}

	html, err := NewHTML()
	if err != nil {
		return nil, err
	}
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	return registry, nil
}

// Register adds a sink by its Name(). Names are case-insensitive; duplicates
// return an error.
func (r *Registry) Register(s Sink) error {
	if s == nil {
		return fmt.Errorf("sink: sink is required")
	}
	name := normalizeName(s.Name())
	if name == "" {
		return fmt.Errorf("sink: sink name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sinks[name]; exists {
		return fmt.Errorf("sink: %q already registered", name)
	}

	r.sinks[name] = s
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(s Sink) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// Get retrieves a sink by name. Missing sinks wrap ErrNotFound.
func (r *Registry) Get(name string) (Sink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sinks[normalizeName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrNotFound, name, strings.Join(r.namesLocked(), ", "))
	}
	return s, nil
}

// MustGet panics if the sink is missing.
func (r *Registry) MustGet(name string) Sink {
	s, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return s
}

// List returns a sorted list of sink names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

// Has reports whether a sink is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.sinks[normalizeName(name)]
	return ok
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.sinks))
	for name := range r.sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
