// Package boundary exposes the engine to host environments through an
// explicit dispatch table. Entry points are registered once during
// startup and invoked synchronously: one input, one result or one
// classified error per call. Nothing is registered as a load-time side
// effect.
package boundary

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/offlog/legacyview/pkg/legacy"
)

// Handler is a synchronous entry point. It returns the serialized
// result, or an error that the transport layer is responsible for
// classifying before it crosses to the host.
type Handler func(ctx context.Context, input []byte) ([]byte, error)

// Table maps entry-point names to handlers.
type Table struct {
	sync.RWMutex
	entries map[string]Handler
	logger  *zap.Logger
}

// DuplicateEntryError occurs when an entry point name is registered twice.
type DuplicateEntryError struct {
	Name string
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("entry point '%s' is already registered", e.Name)
}

// UnknownEntryError occurs when an unregistered entry point is invoked.
type UnknownEntryError struct {
	Name string
}

func (e *UnknownEntryError) Error() string {
	return fmt.Sprintf("entry point '%s' is not registered", e.Name)
}

// NewTable creates an empty dispatch table.
func NewTable(logger *zap.Logger) *Table {
	return &Table{
		entries: make(map[string]Handler),
		logger:  logger.With(zap.String("component", "boundary")),
	}
}

// Default builds the table the engine exports: currently the single
// parse_legacy entry point.
func Default(logger *zap.Logger) *Table {
	t := NewTable(logger)
	if err := t.Register("parse_legacy", ParseLegacy); err != nil {
		// Registration into a fresh table cannot collide.
		panic(err)
	}
	return t
}

// Register adds an entry point to the table.
func (t *Table) Register(name string, h Handler) error {
	t.Lock()
	defer t.Unlock()

	if _, exists := t.entries[name]; exists {
		return &DuplicateEntryError{Name: name}
	}
	t.entries[name] = h

	t.logger.Info("Entry point registered", zap.String("name", name))
	return nil
}

// Invoke calls an entry point synchronously.
func (t *Table) Invoke(ctx context.Context, name string, input []byte) ([]byte, error) {
	t.RLock()
	h, ok := t.entries[name]
	t.RUnlock()

	if !ok {
		return nil, &UnknownEntryError{Name: name}
	}
	return h(ctx, input)
}

// Names returns the registered entry point names.
func (t *Table) Names() []string {
	t.RLock()
	defer t.RUnlock()

	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	return names
}

// ParseLegacy is the engine's entry point: parse the input and return
// its canonical encoding. Every failure is a *legacy.ParseError; the
// call holds no state across invocations.
func ParseLegacy(ctx context.Context, input []byte) ([]byte, error) {
	v, err := legacy.Parse(input)
	if err != nil {
		return nil, err
	}

	out, err := legacy.Encode(v)
	if err != nil {
		// Parse never produces a tree the encoder rejects; reaching
		// this is a defect, not a user input error.
		panic(fmt.Sprintf("boundary: cannot encode parsed value: %v", err))
	}
	return out, nil
}
