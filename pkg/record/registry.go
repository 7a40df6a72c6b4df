package record

import (
	"fmt"
	"sync"
)

// Registry maps type names to record types. Declaration loaders use it to
// resolve bases by name.
type Registry struct {
	types map[string]*Type
	order []string
	mu    sync.RWMutex
}

// NewRegistry creates a new, empty registry
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*Type),
	}
}

// Register adds a type under its name
func (r *Registry) Register(t *Type) error {
	if t == nil {
		return fmt.Errorf("cannot register a nil type")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[t.name]; exists {
		return fmt.Errorf("type %s is already registered", t.name)
	}
	r.types[t.name] = t
	r.order = append(r.order, t.name)
	return nil
}

// Get retrieves a type by name
func (r *Registry) Get(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.types[name]
	return t, exists
}

// All returns a copy of all registered types
func (r *Registry) All() map[string]*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*Type, len(r.types))
	for k, v := range r.types {
		result[k] = v
	}
	return result
}

// List returns the registered type names in registration order. Bases
// always come before the types derived from them.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Clear removes all registered types (useful for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.types = make(map[string]*Type)
	r.order = nil
}

// Count returns the number of registered types
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.types)
}

// Exists checks if a type is registered
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.types[name]
	return exists
}

// GetFields returns the field table of a registered record type
func (r *Registry) GetFields(name string) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, exists := r.types[name]
	if !exists {
		return nil, fmt.Errorf("type %s not found", name)
	}
	return Fields(t)
}

// RegistryStats summarizes the registered types
type RegistryStats struct {
	TotalTypes   int
	TotalRecords int
	TotalFields  int
	Frozen       int
	Ordered      int
	FixedLayout  int
	Unhashable   int
}

// GetStats returns statistics about the registry
func (r *Registry) GetStats() *RegistryStats {
	r.mu.RLock()
	snapshot := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		snapshot = append(snapshot, t)
	}
	r.mu.RUnlock()

	stats := &RegistryStats{TotalTypes: len(snapshot)}
	for _, t := range snapshot {
		if t.table == nil {
			continue
		}
		stats.TotalRecords++
		stats.TotalFields += len(t.table.Fields())
		if t.frozen {
			stats.Frozen++
		}
		if t.options.Order {
			stats.Ordered++
		}
		if t.slots != nil {
			stats.FixedLayout++
		}
		if m, ok := t.Method(MethodHash); ok {
			if _, ok := m.(HashFunc); !ok {
				stats.Unhashable++
			}
		}
	}
	return stats
}
