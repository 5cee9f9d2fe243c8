package wasm

import "fmt"

// CompilationError occurs when a processor module fails to compile.
type CompilationError struct {
	ModuleName string
	Err        error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("failed to compile processor '%s': %v", e.ModuleName, e.Err)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// InstantiationError occurs when a processor cannot be instantiated.
type InstantiationError struct {
	ModuleName string
	InstanceID string
	Err        error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("failed to instantiate processor '%s' (instance: %s): %v",
		e.ModuleName, e.InstanceID, e.Err)
}

func (e *InstantiationError) Unwrap() error {
	return e.Err
}

// ModuleNotFoundError occurs when a processor is not in the compile cache.
type ModuleNotFoundError struct {
	ModuleName string
}

func (e *ModuleNotFoundError) Error() string {
	return fmt.Sprintf("processor '%s' not found in cache", e.ModuleName)
}

// ExportNotFoundError occurs when a processor lacks a required export.
type ExportNotFoundError struct {
	ModuleName string
	Export     string
}

func (e *ExportNotFoundError) Error() string {
	return fmt.Sprintf("processor '%s' does not export '%s'", e.ModuleName, e.Export)
}

// MemoryAccessError occurs when reading or writing guest memory fails.
type MemoryAccessError struct {
	Operation string
	Address   uint32
	Length    uint32
}

func (e *MemoryAccessError) Error() string {
	return fmt.Sprintf("guest memory access failed (op=%s, addr=%d, len=%d)",
		e.Operation, e.Address, e.Length)
}

// GuestCallError occurs when a call into a processor export fails.
type GuestCallError struct {
	ModuleName string
	Function   string
	Err        error
}

func (e *GuestCallError) Error() string {
	return fmt.Sprintf("call to '%s' in processor '%s' failed: %v",
		e.Function, e.ModuleName, e.Err)
}

func (e *GuestCallError) Unwrap() error {
	return e.Err
}
