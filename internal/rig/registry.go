package rig

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownRigType is returned when looking up a mapping name that was
// never registered.
var ErrUnknownRigType = errors.New("unknown rig type")

// Registry holds the named rig mappings for one process. The capture core
// itself is single-threaded, but host tooling (the HTTP server) enumerates
// mappings from handler goroutines, so access is guarded.
type Registry struct {
	mu       sync.RWMutex
	mappings map[string]*Mapping
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{mappings: make(map[string]*Mapping)}
}

// Register validates m and adds it under its name, overwriting any previous
// entry. Registering the same mapping twice is harmless. A mapping that
// fails self-consistency checks is rejected with *InvalidMappingError and
// the registry is left unchanged, which guarantees every registered mapping
// is frame-safe.
func (r *Registry) Register(m *Mapping) error {
	if m == nil || m.Name == "" {
		return &InvalidMappingError{Mapping: "", Problems: []string{"mapping is nil or unnamed"}}
	}
	if err := m.finalize(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappings[m.Name] = m
	return nil
}

// Get returns the mapping registered under name. Unknown names fail with
// ErrUnknownRigType rather than returning a default.
func (r *Registry) Get(name string) (*Mapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mappings[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownRigType)
	}
	return m, nil
}

// Names returns the sorted names of all registered mappings.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.mappings))
	for name := range r.mappings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterBuiltins registers the shipped conventions: Mixamo, Rigify, and
// the partial Maya mapping.
func (r *Registry) RegisterBuiltins() error {
	for _, m := range []*Mapping{MixamoMapping(), RigifyMapping(), MayaMapping()} {
		if err := r.Register(m); err != nil {
			return fmt.Errorf("register builtin %q: %w", m.Name, err)
		}
	}
	return nil
}
