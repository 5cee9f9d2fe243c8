// Package indexer wires the engine together: it reads an append-only
// message log, materializes the view database, and hands indexed
// messages to any sandboxed processors interested in their content
// type.
package indexer

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/offlog/legacyview/internal/boundary"
	"github.com/offlog/legacyview/internal/config"
	"github.com/offlog/legacyview/internal/keys"
	"github.com/offlog/legacyview/internal/message"
	"github.com/offlog/legacyview/internal/plugin"
	"github.com/offlog/legacyview/internal/privatebox"
	"github.com/offlog/legacyview/internal/view"
	"github.com/offlog/legacyview/internal/wasm"
)

// Indexer owns the full pipeline from log file to view database.
type Indexer struct {
	cfg    *config.Config
	logger *zap.Logger

	identity *keys.Identity
	view     *view.View
	runtime  *wasm.Runtime
	plugins  *plugin.Manager

	// One live instance per processor, created on first use.
	instances map[string]*wasm.Instance
}

// New builds an indexer from configuration. The identity is optional;
// without one, private content stays sealed.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Indexer, error) {
	var identity *keys.Identity
	var unboxKeys []privatebox.SecretKey
	if cfg.SecretFile != "" {
		id, err := keys.LoadSecret(cfg.SecretFile)
		if err != nil {
			return nil, err
		}
		identity = id
		unboxKeys = append(unboxKeys, id.UnboxKey())
		logger.Info("Identity loaded", zap.String("id", id.ID))
	} else {
		logger.Info("No secret file configured, private content stays sealed")
	}

	v, err := view.Open(cfg.DBPath, unboxKeys, logger)
	if err != nil {
		return nil, err
	}

	runtimeConfig := &wasm.RuntimeConfig{
		MemoryPages:  cfg.Wasm.MemoryPages,
		DebugEnabled: cfg.Wasm.Debug,
		CacheDir:     cfg.Wasm.CacheDir,
	}
	runtime, err := wasm.NewRuntime(ctx, logger, runtimeConfig)
	if err != nil {
		_ = v.Close()
		return nil, fmt.Errorf("failed to initialize Wasm runtime: %w", err)
	}

	host := wasm.NewHostFunctions(boundary.Default(logger), logger)
	plugins := plugin.NewManager(cfg, runtime, host, logger)
	if err := plugins.LoadAll(ctx); err != nil {
		_ = runtime.Close(ctx)
		_ = v.Close()
		return nil, err
	}

	logger.Info("Indexer initialized",
		zap.String("db_path", cfg.DBPath),
		zap.String("log_path", cfg.LogPath),
		zap.Int("processors", plugins.Registry().Count()),
	)

	return &Indexer{
		cfg:       cfg,
		logger:    logger.With(zap.String("component", "indexer")),
		identity:  identity,
		view:      v,
		runtime:   runtime,
		plugins:   plugins,
		instances: make(map[string]*wasm.Instance),
	}, nil
}

// View exposes the materialized view for queries.
func (ix *Indexer) View() *view.View {
	return ix.view
}

// Run reads the log from where the view left off to the end of the
// file. The log holds one document per line; the line number is the
// item's sequence. Safe to call again after the log grows.
func (ix *Indexer) Run(ctx context.Context) error {
	latest, err := ix.view.Latest(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(ix.cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to open log '%s': %w", ix.cfg.LogPath, err)
	}
	defer f.Close()

	ix.logger.Info("Indexing log",
		zap.String("path", ix.cfg.LogPath),
		zap.Int64("from_seq", latest+1),
	)

	batchSize := ix.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var seq int64
	var batch []view.Item
	var indexed int64

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ix.view.AppendBatch(ctx, batch); err != nil {
			return err
		}
		indexed += int64(len(batch))
		for _, item := range batch {
			ix.dispatch(ctx, item.Raw)
		}
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		seq++
		if seq <= latest {
			continue
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		raw := make([]byte, len(line))
		copy(raw, line)

		batch = append(batch, view.Item{Seq: seq, Raw: raw})
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read log '%s': %w", ix.cfg.LogPath, err)
	}

	if err := flush(); err != nil {
		return err
	}

	ix.logger.Info("Indexing complete",
		zap.Int64("indexed", indexed),
		zap.Int64("latest_seq", seq),
	)
	return nil
}

// dispatch hands a message to the processor registered for its content
// type, if any. Processor failures are logged, never fatal; the view
// row is already committed.
func (ix *Indexer) dispatch(ctx context.Context, raw []byte) {
	m, err := message.Parse(raw)
	if err != nil {
		return
	}
	contentType := m.ContentType()
	if contentType == "" {
		return
	}

	p, err := ix.plugins.FindForType(contentType)
	if err != nil {
		return
	}

	instance, err := ix.instanceFor(ctx, p.Name())
	if err != nil {
		ix.logger.Warn("Failed to instantiate processor",
			zap.String("processor", p.Name()),
			zap.Error(err),
		)
		return
	}

	if _, err := instance.Process(ctx, raw); err != nil {
		ix.logger.Warn("Processor failed",
			zap.String("processor", p.Name()),
			zap.String("key", m.Key),
			zap.Error(err),
		)
	}
}

func (ix *Indexer) instanceFor(ctx context.Context, name string) (*wasm.Instance, error) {
	if instance, ok := ix.instances[name]; ok {
		return instance, nil
	}
	instance, err := ix.plugins.Instantiate(ctx, name)
	if err != nil {
		return nil, err
	}
	ix.instances[name] = instance
	return instance, nil
}

// Close shuts the pipeline down: processors first, then the view.
func (ix *Indexer) Close(ctx context.Context) error {
	ix.logger.Info("Shutting down indexer")

	var firstErr error
	if err := ix.plugins.Shutdown(ctx); err != nil {
		firstErr = err
	}
	if err := ix.view.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	ix.logger.Info("Indexer shutdown complete")
	return firstErr
}
