package ingest

import (
	"context"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/domain"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
)

// SyncStats summarizes one metadata sync.
type SyncStats struct {
	Scanned int `json:"scanned"`
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
	// Aborted is set when the scan could not be opened or broke off.
	Aborted bool `json:"aborted"`
}

// Syncer copies every stored metadata document into the metadata index.
type Syncer struct {
	store   DocumentStore
	index   SearchIndex
	log     logger.Logger
	metrics Metrics
}

// NewSyncer creates a Syncer. m may be nil.
func NewSyncer(store DocumentStore, index SearchIndex, log logger.Logger, m Metrics) *Syncer {
	return &Syncer{store: store, index: index, log: log, metrics: metricsOrNop(m)}
}

// SyncAll indexes every stored metadata document into <indexName>_metadata,
// keyed by its id, so repeated syncs converge on the same document set. A
// document that fails to index is logged and skipped.
func (s *Syncer) SyncAll(ctx context.Context, indexName string) SyncStats {
	target := domain.MetadataIndex(indexName)
	var stats SyncStats

	err := s.store.ForEachMetadata(ctx, func(doc map[string]any) error {
		stats.Scanned++

		id, _ := doc["id"].(string)
		if id == "" {
			s.log.Warn("Metadata document has no id, indexing with a generated one")
		}

		if indexErr := s.index.IndexDocument(ctx, target, id, doc); indexErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			stats.Failed++
			s.metrics.RecordSynced(OutcomeError)
			s.log.Error("Failed to sync metadata document",
				logger.String("id", id),
				logger.String("index", target),
				kindField(indexErr),
				logger.Error(indexErr),
			)
			return nil
		}

		stats.Indexed++
		s.metrics.RecordSynced(OutcomeOK)
		return nil
	})
	if err != nil {
		stats.Aborted = true
		s.log.Error("Metadata sync aborted",
			logger.String("index", target),
			kindField(err),
			logger.Error(err),
		)
	}

	s.log.Info("Metadata sync finished",
		logger.String("index", target),
		logger.Int("scanned", stats.Scanned),
		logger.Int("indexed", stats.Indexed),
		logger.Int("failed", stats.Failed),
	)
	return stats
}
