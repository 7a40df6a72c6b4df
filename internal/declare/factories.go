// Package declare loads record type declarations from YAML documents and Go
// struct types.
package declare

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Factory creates a fresh default value for each instance
type Factory func() any

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{
		"list": func() any { return []any{} },
		"map":  func() any { return map[string]any{} },
		"set":  func() any { return map[any]struct{}{} },
		"uuid": func() any { return uuid.NewString() },
		"now":  func() any { return time.Now().UTC() },
	}
)

// RegisterFactory makes a default factory available by name.
// Registering a name twice or a nil factory panics.
func RegisterFactory(name string, fn Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if fn == nil {
		panic("declare: RegisterFactory factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("declare: RegisterFactory called twice for " + name)
	}
	factories[name] = fn
}

// LookupFactory returns the factory registered under name
func LookupFactory(name string) (Factory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	fn, ok := factories[name]
	return fn, ok
}

// FactoryNames returns the registered factory names, sorted
func FactoryNames() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
