package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/JonMunkholm/dashview/internal/table"
)

var (
	registry   = make(map[string]ResourceDefinition)
	registryMu sync.RWMutex
)

// Register adds a resource definition to the registry.
// Panics if the key is taken or the columns are invalid.
func Register(def ResourceDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if def.Info.Key == "" {
		panic("resource key is required")
	}
	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("resource already registered: %s", def.Info.Key))
	}
	if _, err := table.NewColumnSet(def.Columns); err != nil {
		panic(fmt.Sprintf("resource %s: %v", def.Info.Key, err))
	}
	if !def.DefaultSortValid() {
		panic(fmt.Sprintf("resource %s: default sort column %q is not sortable", def.Info.Key, def.Info.DefaultSort.ColumnID))
	}

	if def.Info.KeyField == "" {
		def.Info.KeyField = table.DefaultKeyField
	}
	if def.Info.Endpoint == "" {
		def.Info.Endpoint = def.Info.Key
	}
	if def.Info.Table == "" {
		def.Info.Table = def.Info.Key
	}
	if def.Info.Selection == "" {
		def.Info.Selection = table.SelectMultiple
	}

	registry[def.Info.Key] = def
}

// Get returns a resource definition by key.
func Get(key string) (ResourceDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns every registered resource, sorted by group then key.
func All() []ResourceDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]ResourceDefinition, 0, len(registry))
	for _, def := range registry {
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

// ByGroup returns the resources in group, sorted by key.
func ByGroup(group string) []ResourceDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []ResourceDefinition
	for _, def := range registry {
		if def.Info.Group == group {
			result = append(result, def)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Groups returns all group names, sorted.
func Groups() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	seen := make(map[string]struct{})
	for _, def := range registry {
		seen[def.Info.Group] = struct{}{}
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}

	sort.Strings(groups)
	return groups
}

// ResourceCount returns the number of registered resources.
func ResourceCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes every registered resource. Used by tests.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]ResourceDefinition)
}
