// ABOUTME: Plugin registry for registering and retrieving admin model plugins.
// ABOUTME: Plugins register themselves in init() functions; listing order is by name.

package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry = make(map[string]Plugin)
	mu       sync.RWMutex
)

// Register adds a plugin to the registry
func Register(p Plugin) {
	mu.Lock()
	defer mu.Unlock()

	name := p.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("plugin %q already registered", name))
	}
	registry[name] = p
}

// Get retrieves a plugin by name
func Get(name string) (Plugin, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := registry[name]
	return p, ok
}

// All returns all registered plugins sorted by name
func All() []Plugin {
	mu.RLock()
	defer mu.RUnlock()

	plugins := make([]Plugin, 0, len(registry))
	for _, p := range registry {
		plugins = append(plugins, p)
	}
	sort.Slice(plugins, func(i, j int) bool {
		return plugins[i].Name() < plugins[j].Name()
	})
	return plugins
}

// Names returns all registered plugin names, sorted
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByModel finds the plugin serving app_label/model_name
func ByModel(appLabel, modelName string) (Plugin, bool) {
	mu.RLock()
	defer mu.RUnlock()

	for _, p := range registry {
		meta := p.Meta()
		if meta.AppLabel == appLabel && meta.ModelName == modelName {
			return p, true
		}
	}
	return nil, false
}
