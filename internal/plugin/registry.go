package plugin

import (
	"sync"

	"go.uber.org/zap"
)

// Registry manages loaded processors, indexed by name and by the
// content types they handle.
type Registry struct {
	sync.RWMutex
	plugins map[string]*Plugin
	byType  map[string][]*Plugin
	logger  *zap.Logger
}

// NewRegistry creates a new processor registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		plugins: make(map[string]*Plugin),
		byType:  make(map[string][]*Plugin),
		logger:  logger.With(zap.String("component", "plugin-registry")),
	}
}

// Register adds a processor to the registry.
func (r *Registry) Register(plugin *Plugin) error {
	r.Lock()
	defer r.Unlock()

	name := plugin.Manifest.Name

	if _, exists := r.plugins[name]; exists {
		return &AlreadyRegisteredError{PluginName: name}
	}

	r.plugins[name] = plugin

	for _, t := range plugin.Manifest.Types {
		r.byType[t] = append(r.byType[t], plugin)
	}

	r.logger.Info("Processor registered",
		zap.String("name", name),
		zap.Strings("types", plugin.Manifest.Types),
	)

	return nil
}

// Get retrieves a processor by name.
func (r *Registry) Get(name string) (*Plugin, bool) {
	r.RLock()
	defer r.RUnlock()

	plugin, ok := r.plugins[name]
	return plugin, ok
}

// LookupByType finds processors handling a content type.
func (r *Registry) LookupByType(contentType string) []*Plugin {
	r.RLock()
	defer r.RUnlock()

	plugins, ok := r.byType[contentType]
	if !ok || len(plugins) == 0 {
		return []*Plugin{}
	}
	result := make([]*Plugin, len(plugins))
	copy(result, plugins)
	return result
}

// List returns all registered processors.
func (r *Registry) List() []*Plugin {
	r.RLock()
	defer r.RUnlock()

	result := make([]*Plugin, 0, len(r.plugins))
	for _, plugin := range r.plugins {
		result = append(result, plugin)
	}
	return result
}

// Unregister removes a processor from the registry.
func (r *Registry) Unregister(name string) {
	r.Lock()
	defer r.Unlock()

	plugin, ok := r.plugins[name]
	if !ok {
		return
	}

	for _, t := range plugin.Manifest.Types {
		plugins := r.byType[t]
		for i, p := range plugins {
			if p.Manifest.Name == name {
				r.byType[t] = append(plugins[:i], plugins[i+1:]...)
				break
			}
		}
	}

	delete(r.plugins, name)

	r.logger.Info("Processor unregistered", zap.String("name", name))
}

// Count returns the number of registered processors.
func (r *Registry) Count() int {
	r.RLock()
	defer r.RUnlock()

	return len(r.plugins)
}
