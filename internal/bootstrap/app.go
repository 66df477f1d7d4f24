// Package bootstrap handles application initialization and lifecycle management
// for the warc-ingestor service.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/archive"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/domain"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/ingest"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/metrics"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/mongodb"
)

var (
	_ ingest.DocumentStore = (*mongodb.Store)(nil)
	_ ingest.SearchIndex   = (*elasticsearch.Client)(nil)
	_ ingest.ArchiveSource = (*archive.Fetcher)(nil)
	_ ingest.Metrics       = (*metrics.Metrics)(nil)
)

// Start loads configuration and performs one run.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	budget := cfg.Ingest.Budget()
	log.Info("Starting WARC Ingestor",
		logger.String("version", cfg.Service.Version),
		logger.Int("max_record_fetch", int(budget)),
		logger.String("mode", string(budget.Mode())),
		logger.String("db_name", cfg.Ingest.DBName),
		logger.String("content_index", cfg.Ingest.ContentIndex()),
		logger.String("metadata_index", cfg.Ingest.MetadataIndex()),
	)

	if budget.Mode() == domain.ModeNoop {
		log.Info("Run budget is zero, exiting without connecting to any store")
		return nil
	}

	// Phase 2: Metrics (optional)
	m, stopMetrics := SetupMetrics(ctx, cfg, log)
	defer stopMetrics()

	// Phase 3: Setup Elasticsearch
	esClient, err := SetupElasticsearch(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to setup Elasticsearch: %w", err)
	}
	log.Info("Elasticsearch client initialized", logger.String("url", cfg.Elasticsearch.URL))

	// Phase 4: Setup MongoDB
	store, err := SetupMongoDB(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to setup MongoDB: %w", err)
	}
	defer func() {
		if closeErr := store.Close(context.WithoutCancel(ctx)); closeErr != nil {
			log.Error("Failed to close MongoDB connection", logger.Error(closeErr))
		}
	}()
	log.Info("MongoDB client initialized", logger.String("database", cfg.Ingest.DBName))

	// Phase 5: Run
	fetcher := archive.NewFetcher(archive.ClientConfig{
		DialTimeout:           cfg.HTTP.DialTimeout,
		ResponseHeaderTimeout: cfg.HTTP.ResponseHeaderTimeout,
		UserAgent:             cfg.HTTP.UserAgent,
	}, log)

	controller := ingest.NewController(ingest.Options{
		ArchiveURL:   cfg.Ingest.ArchiveURL,
		DBName:       cfg.Ingest.DBName,
		HealthStatus: cfg.Elasticsearch.HealthStatus,
	}, store, esClient, fetcher, log, m)

	report, runErr := controller.Run(ctx, budget)
	if cfg.Ingest.PrintSummary {
		ingest.RenderReport(os.Stderr, report)
	}
	if runErr != nil {
		return fmt.Errorf("run failed: %w", runErr)
	}

	log.Info("WARC Ingestor stopped")
	return nil
}
