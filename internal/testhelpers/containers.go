//go:build integration

// Package testhelpers starts the backing services used by integration tests.
package testhelpers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcelasticsearch "github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	tcmongodb "github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/retry"
)

const (
	elasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.11.0"
	elasticsearchUser  = "elastic"
	elasticsearchPass  = "changeme"
	mongoImage         = "mongo:7"
)

// StartElasticsearch runs a single-node cluster for the duration of the test
// and returns a client configuration pointing at it.
func StartElasticsearch(t *testing.T) elasticsearch.Config {
	t.Helper()
	ctx := context.Background()

	container, err := tcelasticsearch.Run(ctx, elasticsearchImage, tcelasticsearch.WithPassword(elasticsearchPass))
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, container)

	cfg := elasticsearch.Config{
		URL:      container.Settings.Address,
		Username: elasticsearchUser,
		Password: elasticsearchPass,
		Timeout:  30 * time.Second,
		HealthRetry: retry.Config{
			MaxAttempts:  30,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     2 * time.Second,
		},
	}

	if len(container.Settings.CACert) > 0 {
		caPath := filepath.Join(t.TempDir(), "ca.pem")
		require.NoError(t, os.WriteFile(caPath, container.Settings.CACert, 0o600))
		cfg.CACertPath = caPath
	}

	return cfg
}

// StartMongoDB runs a MongoDB server for the duration of the test and returns
// its connection URI.
func StartMongoDB(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcmongodb.Run(ctx, mongoImage)
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, container)

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	return uri
}
