package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/offlog/legacyview/internal/config"
	"github.com/offlog/legacyview/internal/indexer"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	dbPath := flag.String("db", "", "Path to the view database (overrides config)")
	logPath := flag.String("log", "", "Path to the message log (overrides config)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// The logger is not up yet.
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *logPath != "" {
		cfg.LogPath = *logPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	var logger *zap.Logger
	if cfg.LogLevel == "debug" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting legacyview",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("date", date),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ix, err := indexer.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create indexer", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	runErr := ix.Run(ctx)
	if runErr != nil && runErr != context.Canceled {
		logger.Error("Indexing failed", zap.Error(runErr))
	}

	if err := ix.Close(context.Background()); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}

	if runErr != nil && runErr != context.Canceled {
		os.Exit(1)
	}
	logger.Info("Shutdown complete")
}
