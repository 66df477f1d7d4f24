package bootstrap

import (
	"context"
	"fmt"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/config"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/mongodb"
)

// SetupMongoDB creates the metadata store for the configured database.
func SetupMongoDB(ctx context.Context, cfg *config.Config, log logger.Logger) (*mongodb.Store, error) {
	store, err := mongodb.Connect(ctx, mongodb.Config{
		URI:              cfg.MongoDB.URI,
		Database:         cfg.Ingest.DBName,
		Collection:       cfg.Ingest.MetadataCollection,
		ConnectTimeout:   cfg.MongoDB.ConnectTimeout,
		OperationTimeout: cfg.MongoDB.OperationTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("mongodb connection: %w", err)
	}
	return store, nil
}
