package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/storage"
	"github.com/couchcryptid/seaice-etl/internal/adapter/gcs"
	"github.com/couchcryptid/seaice-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/seaice-etl/internal/adapter/kafka"
	"github.com/couchcryptid/seaice-etl/internal/adapter/source"
	"github.com/couchcryptid/seaice-etl/internal/config"
	"github.com/couchcryptid/seaice-etl/internal/fielddef"
	"github.com/couchcryptid/seaice-etl/internal/observability"
	"github.com/couchcryptid/seaice-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Object storage input is feature-flagged via GCS_ENABLED.
	var localizer pipeline.Localizer
	var storageClient *storage.Client
	if cfg.GCSEnabled {
		storageClient, err = storage.NewClient(ctx)
		if err != nil {
			logger.Error("failed to create storage client", "error", err)
			os.Exit(1)
		}
		localizer = gcs.NewFetcher(storageClient, cfg.ScratchDir, logger)
		logger.Info("object storage input enabled", "scratch_dir", cfg.ScratchDir)
	} else {
		logger.Info("object storage input disabled")
	}

	definitions := fielddef.NewCachedLoader(fielddef.FileLoader{}, cfg.FieldDefinitionCacheSize, metrics.ObserveFieldDefinitionCache)
	if _, err := definitions.Load(cfg.FieldDefinitionPath); err != nil {
		// Requests may still name their own definition, so keep running.
		logger.Warn("default field definition unavailable", "path", cfg.FieldDefinitionPath, "error", err)
	}
	registry := source.NewRegistry(definitions, cfg.FieldDefinitionPath, logger)
	history := pipeline.NewHistory(cfg.SummaryHistorySize)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(registry, localizer, history, metrics, logger).
		RestrictTo(cfg.AllowedInputRoots)
	if len(cfg.AllowedInputRoots) > 0 {
		logger.Info("request paths restricted", "roots", cfg.AllowedInputRoots)
	}

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, history, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ingest pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if storageClient != nil {
		if err := storageClient.Close(); err != nil {
			logger.Error("storage client close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
