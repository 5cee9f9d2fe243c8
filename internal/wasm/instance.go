package wasm

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/offlog/legacyview/api/abi"
)

// InstanceManager instantiates compiled processors. The host module
// backing their imports is instantiated lazily, once per runtime.
type InstanceManager struct {
	runtime *Runtime
	host    *HostFunctions
	logger  *zap.Logger

	hostOnce sync.Once
	hostErr  error
}

// NewInstanceManager creates an instance manager on top of a runtime.
func NewInstanceManager(runtime *Runtime, host *HostFunctions, logger *zap.Logger) *InstanceManager {
	return &InstanceManager{
		runtime: runtime,
		host:    host,
		logger:  logger.With(zap.String("component", "instance-manager")),
	}
}

// Instance is a live processor. All calls into the guest go through
// its cached exports; wazero serializes calls into a module, so an
// Instance is safe for concurrent use.
type Instance struct {
	ID     string
	Module api.Module

	process api.Function
	memory  *Memory

	manager *InstanceManager
}

// ensureHostModule instantiates the "host" module into the runtime
// namespace so processor imports resolve.
func (m *InstanceManager) ensureHostModule(ctx context.Context) error {
	m.hostOnce.Do(func() {
		builder := m.runtime.runtime.NewHostModuleBuilder(abi.HostModule)
		m.host.register(builder)
		_, m.hostErr = builder.Instantiate(ctx)
		if m.hostErr == nil {
			m.logger.Debug("Host module instantiated",
				zap.String("module", abi.HostModule))
		}
	})
	return m.hostErr
}

// Instantiate creates a new instance of a compiled processor.
func (m *InstanceManager) Instantiate(ctx context.Context, compiled *CompiledModule, instanceID string) (*Instance, error) {
	if err := m.ensureHostModule(ctx); err != nil {
		return nil, &InstantiationError{ModuleName: abi.HostModule, InstanceID: instanceID, Err: err}
	}

	moduleConfig := wazero.NewModuleConfig().
		WithName(instanceID).
		WithStartFunctions() // no _start; processors are reactors

	mod, err := m.runtime.runtime.InstantiateModule(ctx, compiled.Module, moduleConfig)
	if err != nil {
		return nil, &InstantiationError{ModuleName: compiled.Name, InstanceID: instanceID, Err: err}
	}

	process := mod.ExportedFunction(abi.ExportProcess)
	if process == nil {
		_ = mod.Close(ctx)
		return nil, &ExportNotFoundError{ModuleName: compiled.Name, Export: abi.ExportProcess}
	}

	memory, err := NewMemory(mod)
	if err != nil {
		_ = mod.Close(ctx)
		return nil, err
	}

	instance := &Instance{
		ID:      instanceID,
		Module:  mod,
		process: process,
		memory:  memory,
		manager: m,
	}
	m.runtime.StoreInstance(instanceID, instance)

	m.logger.Info("Processor instantiated",
		zap.String("module", compiled.Name),
		zap.String("instance_id", instanceID),
	)
	return instance, nil
}

// Process hands raw bytes to the processor's process export and
// returns whatever envelope the guest produced.
func (i *Instance) Process(ctx context.Context, raw []byte) ([]byte, error) {
	ptr, err := i.memory.Write(ctx, raw)
	if err != nil {
		return nil, err
	}

	results, err := i.process.Call(ctx, uint64(ptr), uint64(len(raw)))
	if err != nil {
		return nil, &GuestCallError{ModuleName: i.Module.Name(), Function: abi.ExportProcess, Err: err}
	}

	outPtr, outLen := abi.UnpackPtrLen(results[0])
	if outLen == 0 {
		return nil, nil
	}
	return i.memory.Read(outPtr, outLen)
}

// Close tears down the instance and removes it from tracking.
func (i *Instance) Close(ctx context.Context) error {
	i.manager.runtime.DeleteInstance(i.ID)
	return i.Module.Close(ctx)
}
