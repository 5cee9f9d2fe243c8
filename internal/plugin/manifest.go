package plugin

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/offlog/legacyview/api/abi"
)

// Manifest represents the processor manifest.yaml structure.
type Manifest struct {
	Name    string     `yaml:"name"`
	Version string     `yaml:"version"`
	Types   []string   `yaml:"types"`
	Wasm    WasmConfig `yaml:"wasm"`
	Imports []string   `yaml:"imports"`
	Author  string     `yaml:"author"`
	License string     `yaml:"license"`

	// Directory containing the manifest.
	dir string
}

// WasmConfig holds Wasm module configuration.
type WasmConfig struct {
	File string `yaml:"file"`
	Size int    `yaml:"size"` // KB
}

// hostImports are the host functions a processor may declare.
var hostImports = map[string]bool{
	abi.FuncParseLegacy: true,
	abi.FuncLogMessage:  true,
}

// ParseManifest reads and parses manifest.yaml from a directory.
func ParseManifest(dir string) (*Manifest, error) {
	manifestPath := filepath.Join(dir, "manifest.yaml")

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, &ManifestNotFoundError{
			Path: manifestPath,
			Err:  err,
		}
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ManifestParseError{
			Path: manifestPath,
			Err:  err,
		}
	}

	m.dir = dir

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks manifest fields.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return &ManifestValidationError{
			Path:    m.Path(),
			Field:   "name",
			Message: "name is required",
		}
	}

	if m.Version == "" {
		return &ManifestValidationError{
			Path:    m.Path(),
			Field:   "version",
			Message: "version is required",
		}
	}

	if len(m.Types) == 0 {
		return &ManifestValidationError{
			Path:    m.Path(),
			Field:   "types",
			Message: "at least one content type is required",
		}
	}
	for _, t := range m.Types {
		if t == "" {
			return &ManifestValidationError{
				Path:    m.Path(),
				Field:   "types",
				Message: "content types must be non-empty",
			}
		}
	}

	if m.Wasm.File == "" {
		return &ManifestValidationError{
			Path:    m.Path(),
			Field:   "wasm.file",
			Message: "wasm.file is required",
		}
	}

	// A processor may only import what the host actually exports.
	for _, imp := range m.Imports {
		if !hostImports[imp] {
			return &ManifestValidationError{
				Path:  m.Path(),
				Field: "imports",
				Message: fmt.Sprintf("unknown host import: %s (must be one of: %s, %s)",
					imp, abi.FuncParseLegacy, abi.FuncLogMessage),
			}
		}
	}

	wasmPath := m.WasmPath()
	if _, err := os.Stat(wasmPath); os.IsNotExist(err) {
		return &WasmNotFoundError{
			ManifestPath: m.Path(),
			WasmFile:     m.Wasm.File,
		}
	}

	return nil
}

// Path returns the manifest file path.
func (m *Manifest) Path() string {
	return filepath.Join(m.dir, "manifest.yaml")
}

// WasmPath returns the absolute path to the Wasm file.
func (m *Manifest) WasmPath() string {
	return filepath.Join(m.dir, m.Wasm.File)
}

// Dir returns the directory containing the manifest.
func (m *Manifest) Dir() string {
	return m.dir
}
