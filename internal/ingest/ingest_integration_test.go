//go:build integration

package ingest_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	archivepkg "github.com/jonesrussell/north-cloud/warc-ingestor/internal/archive"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/errkind"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/ingest"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/mongodb"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/testhelpers"
)

func gzipArchive(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestController_EndToEnd(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()

	esCfg := testhelpers.StartElasticsearch(t)
	mongoURI := testhelpers.StartMongoDB(t)

	payload := gzipArchive(t, threeRecordArchive())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/warc")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	index, err := elasticsearch.NewClient(esCfg, log)
	require.NoError(t, err)

	store, err := mongodb.Connect(ctx, mongodb.Config{URI: mongoURI, Database: "e2e"}, log)
	require.NoError(t, err)
	defer func() { _ = store.Close(ctx) }()

	ctrl := ingest.NewController(
		ingest.Options{ArchiveURL: srv.URL + "/test.warc.gz", DBName: "e2e"},
		store, index, archivepkg.NewFetcher(archivepkg.ClientConfig{}, log), log, nil,
	)

	report, err := ctrl.Run(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, report.RecordsAccepted)
	assert.Equal(t, 3, report.Remaining)
	assert.Equal(t, 2, report.Sync.Indexed)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	for _, idx := range []string{"e2e_content", "e2e_metadata"} {
		require.NoError(t, index.Refresh(ctx, idx))
		res, searchErr := index.Search(ctx, idx, elasticsearch.MatchAll())
		require.NoError(t, searchErr)
		assert.Equal(t, int64(2), res.Total, idx)
	}

	// A second sync leaves the metadata index unchanged.
	ingest.NewSyncer(store, index, log, nil).SyncAll(ctx, "e2e")
	require.NoError(t, index.Refresh(ctx, "e2e_metadata"))
	res, err := index.Search(ctx, "e2e_metadata", elasticsearch.MatchAll())
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)

	_, err = ctrl.Run(ctx, -1)
	require.NoError(t, err)

	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = index.Search(ctx, "e2e_content", elasticsearch.MatchAll())
	assert.True(t, errkind.Is(err, errkind.NotFound))
}
