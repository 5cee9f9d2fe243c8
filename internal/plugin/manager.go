package plugin

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/offlog/legacyview/internal/config"
	"github.com/offlog/legacyview/internal/wasm"
)

// Manager owns processor lifecycle: discovery, registration, and
// instantiation.
type Manager struct {
	cfg         *config.Config
	runtime     *wasm.Runtime
	loader      *Loader
	registry    *Registry
	instanceMgr *wasm.InstanceManager
	logger      *zap.Logger

	nextInstance atomic.Uint64

	mu     sync.RWMutex
	loaded bool
}

// NewManager creates a new processor manager.
func NewManager(
	cfg *config.Config,
	runtime *wasm.Runtime,
	host *wasm.HostFunctions,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		cfg:         cfg,
		runtime:     runtime,
		loader:      NewLoader(runtime, logger),
		registry:    NewRegistry(logger),
		instanceMgr: wasm.NewInstanceManager(runtime, host, logger),
		logger:      logger.With(zap.String("component", "plugin-manager")),
	}
}

// LoadAll discovers and loads all processors from configured paths.
// Running with no processors is fine; the view still indexes.
func (m *Manager) LoadAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return fmt.Errorf("processors already loaded")
	}

	m.logger.Info("Loading processors",
		zap.Strings("paths", m.cfg.PluginPaths),
	)

	plugins, err := m.loader.Discover(ctx, m.cfg.PluginPaths)
	if err != nil {
		if _, ok := err.(*NoPluginsFoundError); ok {
			m.logger.Warn("No processors found in configured paths",
				zap.Strings("paths", m.cfg.PluginPaths),
			)
			m.loaded = true
			return nil
		}
		return err
	}

	for _, plugin := range plugins {
		if err := m.registry.Register(plugin); err != nil {
			m.logger.Error("Failed to register processor",
				zap.String("name", plugin.Manifest.Name),
				zap.Error(err),
			)
			continue
		}
	}

	m.loaded = true

	m.logger.Info("Processors loaded successfully",
		zap.Int("count", len(plugins)),
	)

	return nil
}

// Get retrieves a processor by name.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugin, ok := m.registry.Get(name)
	if !ok {
		return nil, &NotFoundError{PluginName: name}
	}

	return plugin, nil
}

// FindForType finds a processor handling a content type.
func (m *Manager) FindForType(contentType string) (*Plugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := m.registry.LookupByType(contentType)
	if len(plugins) == 0 {
		return nil, fmt.Errorf("no processor found for type '%s'", contentType)
	}

	// First match wins; version selection can come later.
	return plugins[0], nil
}

// Instantiate creates a new instance of a processor.
func (m *Manager) Instantiate(ctx context.Context, name string) (*wasm.Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugin, ok := m.registry.Get(name)
	if !ok {
		return nil, &NotFoundError{PluginName: name}
	}

	instanceID := fmt.Sprintf("%s-%d", name, m.nextInstance.Add(1))
	return m.instanceMgr.Instantiate(ctx, plugin.Compiled, instanceID)
}

// Shutdown gracefully shuts down all processors.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down processor manager")

	// Runtime close handles instance cleanup.
	if err := m.runtime.Close(ctx); err != nil {
		m.logger.Error("Failed to shutdown runtime", zap.Error(err))
		return err
	}

	m.logger.Info("Processor manager shutdown complete")
	return nil
}

// Registry returns the processor registry.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// IsLoaded returns whether processors have been loaded.
func (m *Manager) IsLoaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}
