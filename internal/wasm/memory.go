package wasm

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/offlog/legacyview/api/abi"
)

// Memory moves byte slices in and out of a processor's linear memory.
// Guest memory is isolated from the host, so every transfer is an
// explicit bounds-checked copy; writes go through the processor's own
// alloc export so the host never guesses at free regions.
type Memory struct {
	module api.Module
	alloc  api.Function
}

// NewMemory creates a memory helper for an instantiated processor.
// Returns an error when the processor does not export alloc.
func NewMemory(module api.Module) (*Memory, error) {
	alloc := module.ExportedFunction(abi.ExportAlloc)
	if alloc == nil {
		return nil, &ExportNotFoundError{ModuleName: module.Name(), Export: abi.ExportAlloc}
	}
	return &Memory{module: module, alloc: alloc}, nil
}

// Read copies length bytes at ptr out of guest memory.
func (m *Memory) Read(ptr, length uint32) ([]byte, error) {
	buf, ok := m.module.Memory().Read(ptr, length)
	if !ok {
		return nil, &MemoryAccessError{Operation: "read", Address: ptr, Length: length}
	}
	// The returned slice aliases guest memory; copy before the guest
	// can touch it again.
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

// Write allocates space in guest memory via the processor's alloc
// export and copies data into it. Returns the guest pointer.
func (m *Memory) Write(ctx context.Context, data []byte) (uint32, error) {
	results, err := m.alloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, &GuestCallError{ModuleName: m.module.Name(), Function: abi.ExportAlloc, Err: err}
	}
	ptr := uint32(results[0])

	if !m.module.Memory().Write(ptr, data) {
		return 0, &MemoryAccessError{Operation: "write", Address: ptr, Length: uint32(len(data))}
	}
	return ptr, nil
}
