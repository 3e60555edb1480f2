package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry holds table definitions keyed by element identifier.
// It is itself a TableSource that dispatches to each table's own source.
type Registry struct {
	mu     sync.RWMutex
	tables map[string]TableDefinition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]TableDefinition)}
}

// Register adds a table definition to the registry.
// Returns an error if a table with the same key is already registered.
func (r *Registry) Register(def TableDefinition) error {
	if def.Info.Key == "" {
		return fmt.Errorf("register table: empty key")
	}
	if def.Source == nil {
		return fmt.Errorf("register table %s: nil source", def.Info.Key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tables[def.Info.Key]; exists {
		return fmt.Errorf("table already registered: %s", def.Info.Key)
	}
	if def.Info.Label == "" {
		def.Info.Label = def.Info.Key
	}
	if def.Info.Variant == "" {
		def.Info.Variant = VariantFilter
	}

	r.tables[def.Info.Key] = def
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(def TableDefinition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Get returns a table definition by key.
// Returns false if not found.
func (r *Registry) Get(key string) (TableDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.tables[key]
	return def, ok
}

// Lookup implements TableSource by delegating to the registered source.
func (r *Registry) Lookup(ctx context.Context, id string) (*Table, error) {
	def, ok := r.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, id)
	}
	t, err := def.Source.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: %s (source returned no table)", ErrTableNotFound, id)
	}
	if t.ID == "" {
		t.ID = id
	}
	return t, nil
}

// All returns all registered table definitions.
// Sorted by group then by key for consistent ordering.
func (r *Registry) All() []TableDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]TableDefinition, 0, len(r.tables))
	for _, def := range r.tables {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Group != result[j].Info.Group {
			return result[i].Info.Group < result[j].Info.Group
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// ByGroup returns all table definitions for a specific group.
// Sorted by key for consistent ordering.
func (r *Registry) ByGroup(group string) []TableDefinition {
	var result []TableDefinition
	for _, def := range r.All() {
		if def.Info.Group == group {
			result = append(result, def)
		}
	}
	return result
}

// Groups returns all unique group names.
// Sorted alphabetically.
func (r *Registry) Groups() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, def := range r.tables {
		seen[def.Info.Group] = true
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// Count returns the number of registered tables.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

// StaticSource serves fixed tables from memory. Lookups return clones so
// callers can never mutate the stored copy.
type StaticSource struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// NewStaticSource creates a source holding the given tables keyed by ID.
func NewStaticSource(tables ...*Table) *StaticSource {
	s := &StaticSource{tables: make(map[string]*Table)}
	for _, t := range tables {
		s.Put(t)
	}
	return s
}

// Put stores or replaces a table.
func (s *StaticSource) Put(t *Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = t.Clone()
}

// Delete removes a table.
func (s *StaticSource) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, id)
}

// Lookup implements TableSource.
func (s *StaticSource) Lookup(_ context.Context, id string) (*Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, id)
	}
	return t.Clone(), nil
}
