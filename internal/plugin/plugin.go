package plugin

import (
	"time"

	"github.com/offlog/legacyview/internal/wasm"
)

// Plugin is a loaded processor with its manifest and compiled module.
type Plugin struct {
	// Manifest is the parsed processor metadata.
	Manifest *Manifest

	// Compiled is the compiled Wasm module.
	Compiled *wasm.CompiledModule

	// LoadedAt is when the processor was loaded.
	LoadedAt time.Time
}

// Name returns the processor name.
func (p *Plugin) Name() string {
	return p.Manifest.Name
}

// Version returns the processor version.
func (p *Plugin) Version() string {
	return p.Manifest.Version
}

// Types returns the content types this processor handles.
func (p *Plugin) Types() []string {
	return p.Manifest.Types
}

// HandlesType reports whether the processor handles a content type.
func (p *Plugin) HandlesType(contentType string) bool {
	for _, t := range p.Manifest.Types {
		if t == contentType {
			return true
		}
	}
	return false
}
