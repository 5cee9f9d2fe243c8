package wasm

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/offlog/legacyview/api/abi"
	"github.com/offlog/legacyview/internal/boundary"
)

// HostFunctions implements the host side of the processor ABI. Every
// processor instance imports these under the "host" module.
type HostFunctions struct {
	table  *boundary.Table
	logger *zap.Logger
}

// NewHostFunctions creates the host function implementation backed by
// an entry-point table.
func NewHostFunctions(table *boundary.Table, logger *zap.Logger) *HostFunctions {
	return &HostFunctions{
		table:  table,
		logger: logger.With(zap.String("component", "wasm-host")),
	}
}

// parseLegacy is called by processors to parse raw message bytes held
// in their own memory. The result envelope is written back into guest
// memory and returned as a packed ptr/len. A packed zero signals that
// the call could not complete (bad pointer, broken alloc export); the
// guest cannot distinguish that from an empty region, which is fine
// because the envelope is never empty.
func (h *HostFunctions) parseLegacy(ctx context.Context, mod api.Module, ptr, length uint32) uint64 {
	input, ok := mod.Memory().Read(ptr, length)
	if !ok {
		h.logger.Error("Processor passed an invalid input region",
			zap.String("module", mod.Name()),
			zap.Uint32("ptr", ptr),
			zap.Uint32("length", length),
		)
		return 0
	}

	var envelope []byte
	result, err := h.table.Invoke(ctx, abi.FuncParseLegacy, input)
	if err != nil {
		envelope = boundary.EncodeFailure(err)
	} else {
		envelope = boundary.EncodeSuccess(result)
	}

	mem, err := NewMemory(mod)
	if err != nil {
		h.logger.Error("Processor has no alloc export", zap.String("module", mod.Name()))
		return 0
	}
	out, err := mem.Write(ctx, envelope)
	if err != nil {
		h.logger.Error("Failed to write result into processor memory",
			zap.String("module", mod.Name()),
			zap.Error(err),
		)
		return 0
	}

	return abi.PackPtrLen(out, uint32(len(envelope)))
}

// logMessage is called by processors to log through the host logger.
func (h *HostFunctions) logMessage(ctx context.Context, mod api.Module, level, ptr, length uint32) {
	msg, ok := mod.Memory().Read(ptr, length)
	if !ok {
		h.logger.Error("Failed to read log message from processor memory",
			zap.Uint32("ptr", ptr),
			zap.Uint32("length", length),
		)
		return
	}

	logger := h.logger.With(zap.String("processor", mod.Name()))
	switch level {
	case abi.LogDebug:
		logger.Debug(string(msg))
	case abi.LogInfo:
		logger.Info(string(msg))
	case abi.LogWarn:
		logger.Warn(string(msg))
	case abi.LogError:
		logger.Error(string(msg))
	default:
		logger.Info(string(msg))
	}
}

// register binds the host functions onto a host module builder.
func (h *HostFunctions) register(builder wazero.HostModuleBuilder) {
	builder.NewFunctionBuilder().
		WithFunc(h.parseLegacy).
		WithParameterNames("ptr", "length").
		Export(abi.FuncParseLegacy)

	builder.NewFunctionBuilder().
		WithFunc(h.logMessage).
		WithParameterNames("level", "ptr", "length").
		Export(abi.FuncLogMessage)
}
