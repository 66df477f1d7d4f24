package ingest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/domain"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/ingest"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
)

func seededStore(ids ...string) *fakeStore {
	store := &fakeStore{}
	for _, id := range ids {
		resp := domain.NewHeaders(1)
		resp.Set("content-type", "text/html")
		warcHdr := domain.NewHeaders(1)
		warcHdr.Set(domain.StatusKey, 200)
		store.docs = append(store.docs, domain.MetadataDocument{ID: id, Response: resp, Warc: warcHdr})
	}
	return store
}

func TestSyncAll_IndexesEveryDocumentByID(t *testing.T) {
	store := seededStore("a", "b", "c")
	index := newFakeIndex()
	s := ingest.NewSyncer(store, index, logger.NewNop(), nil)

	stats := s.SyncAll(context.Background(), "test")

	assert.Equal(t, ingest.SyncStats{Scanned: 3, Indexed: 3}, stats)
	assert.Equal(t, []string{"a", "b", "c"}, index.docIDs("test_metadata"))

	doc := index.doc("test_metadata", "a").(map[string]any)
	assert.Equal(t, "a", doc["id"])
	assert.NotContains(t, doc, "_id")
}

func TestSyncAll_Idempotent(t *testing.T) {
	store := seededStore("a", "b")
	index := newFakeIndex()
	s := ingest.NewSyncer(store, index, logger.NewNop(), nil)

	s.SyncAll(context.Background(), "test")
	first := index.docIDs("test_metadata")
	s.SyncAll(context.Background(), "test")

	assert.Equal(t, first, index.docIDs("test_metadata"))
}

func TestSyncAll_SkipsFailedDocuments(t *testing.T) {
	store := seededStore("a", "b", "c")
	index := newFakeIndex()
	index.failIndex = func(_, id string) error {
		if id == "b" {
			return errBoom
		}
		return nil
	}
	m := newCountingMetrics()
	s := ingest.NewSyncer(store, index, logger.NewNop(), m)

	stats := s.SyncAll(context.Background(), "test")

	assert.Equal(t, ingest.SyncStats{Scanned: 3, Indexed: 2, Failed: 1}, stats)
	assert.Equal(t, []string{"a", "c"}, index.docIDs("test_metadata"))
	assert.Equal(t, 2, m.synced[ingest.OutcomeOK])
	assert.Equal(t, 1, m.synced[ingest.OutcomeError])
}

func TestSyncAll_ScanFailure(t *testing.T) {
	store := seededStore("a")
	store.scanErr = errBoom
	index := newFakeIndex()
	s := ingest.NewSyncer(store, index, logger.NewNop(), nil)

	stats := s.SyncAll(context.Background(), "test")

	assert.True(t, stats.Aborted)
	assert.Zero(t, stats.Scanned)
	assert.Empty(t, index.docIDs("test_metadata"))
}

func TestSyncAll_StopsOnCancel(t *testing.T) {
	store := seededStore("a", "b", "c")
	index := newFakeIndex()
	ctx, cancel := context.WithCancel(context.Background())
	index.failIndex = func(string, string) error {
		cancel()
		return context.Canceled
	}
	s := ingest.NewSyncer(store, index, logger.NewNop(), nil)

	stats := s.SyncAll(ctx, "test")

	require.True(t, stats.Aborted)
	assert.Equal(t, 1, stats.Scanned)
	assert.Zero(t, stats.Failed)
}

func TestSyncAll_DocumentWithoutID(t *testing.T) {
	store := seededStore("")
	index := newFakeIndex()
	s := ingest.NewSyncer(store, index, logger.NewNop(), nil)

	stats := s.SyncAll(context.Background(), "test")

	assert.Equal(t, 1, stats.Indexed)
	assert.Equal(t, []string{"auto-1"}, index.docIDs("test_metadata"))
}
