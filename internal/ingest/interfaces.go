// Package ingest runs the WARC ingestion pipeline: it filters archive
// records, writes their metadata and decoded content to two independent
// sinks, and copies stored metadata into the search index.
package ingest

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks . DocumentStore,SearchIndex,ArchiveSource

import (
	"context"
	"io"
	"time"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/domain"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/elasticsearch"
)

// DocumentStore persists metadata documents.
type DocumentStore interface {
	Count(ctx context.Context) (int64, error)
	InsertMetadata(ctx context.Context, doc domain.MetadataDocument) error
	ForEachMetadata(ctx context.Context, fn func(doc map[string]any) error) error
	Drop(ctx context.Context) error
}

// SearchIndex stores documents for full-text search.
type SearchIndex interface {
	WaitForHealth(ctx context.Context, status string) error
	EnsureIndex(ctx context.Context, index string, mapping map[string]any) (bool, error)
	IndexDocument(ctx context.Context, index, id string, doc any) error
	DeleteIndex(ctx context.Context, index string) error
	Refresh(ctx context.Context, index string) error
	Search(ctx context.Context, index string, query map[string]any) (*elasticsearch.SearchResult, error)
}

// ArchiveSource opens an archive stream.
type ArchiveSource interface {
	Open(ctx context.Context, url string) (io.ReadCloser, error)
}

// Metrics receives pipeline events.
type Metrics interface {
	RecordSeen()
	RecordSkipped(reason string)
	RecordAccepted()
	RecordWrite(sink, outcome string)
	RecordSynced(outcome string)
	ObserveRun(mode string, d time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) RecordSeen()                      {}
func (nopMetrics) RecordSkipped(string)             {}
func (nopMetrics) RecordAccepted()                  {}
func (nopMetrics) RecordWrite(string, string)       {}
func (nopMetrics) RecordSynced(string)              {}
func (nopMetrics) ObserveRun(string, time.Duration) {}

func metricsOrNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
