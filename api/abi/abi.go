// Package abi defines the contract between the host and sandboxed
// processor plugins.
//
// Plugins are Wasm modules. The host exports these functions for import
// under the "host" module:
//
//	parse_legacy(ptr, len u32) -> u64
//	  Parses the bytes at ptr..ptr+len in the plugin's memory. The
//	  result envelope ({"ok": ...} or {"error": {...}}) is written back
//	  into plugin memory via the plugin's alloc export, and its
//	  location is returned packed as ptr<<32 | len.
//
//	log_message(level, ptr, len u32)
//	  Logs len bytes at ptr through the host logger.
//
// Plugins must export:
//
//	//go:wasmexport alloc
//	func alloc(size uint32) uint32
//
//	//go:wasmexport process
//	func process(ptr, length uint32) uint64
//
// All pointers and lengths are uint32 because Wasm uses a 32-bit linear
// memory model.
package abi

// Host module and function names.
const (
	HostModule      = "host"
	FuncParseLegacy = "parse_legacy"
	FuncLogMessage  = "log_message"
)

// Exports every plugin must provide.
const (
	ExportAlloc   = "alloc"
	ExportProcess = "process"
)

// Log levels accepted by log_message.
const (
	LogDebug uint32 = iota
	LogInfo
	LogWarn
	LogError
)

// PackPtrLen packs a plugin-memory region into the u64 returned across
// the boundary.
func PackPtrLen(ptr, length uint32) uint64 {
	return uint64(ptr)<<32 | uint64(length)
}

// UnpackPtrLen splits a packed u64 back into pointer and length.
func UnpackPtrLen(packed uint64) (ptr, length uint32) {
	return uint32(packed >> 32), uint32(packed)
}
