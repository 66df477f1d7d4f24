package bootstrap_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/config"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yml"))
	for _, name := range []string{
		"ENV_FILE", "MAX_RECORD_FETCH", "DB_NAME", "ARCHIVE_URL", "MONGODB_URI",
		"ELASTICSEARCH_URL", "METRICS_ADDR", "LOG_LEVEL", "LOG_FORMAT", "APP_DEBUG", "PRINT_SUMMARY",
	} {
		t.Setenv(name, "")
	}
}

func TestStart_ZeroBudgetConnectsNothing(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MAX_RECORD_FETCH", "0")
	// Unreachable on purpose: a zero budget must never dial either store.
	t.Setenv("MONGODB_URI", "mongodb://127.0.0.1:1")
	t.Setenv("ELASTICSEARCH_URL", "http://127.0.0.1:1")

	require.NoError(t, bootstrap.Start())
}

func TestStart_InvalidConfig(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MAX_RECORD_FETCH", "lots")

	err := bootstrap.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestCreateLogger(t *testing.T) {
	cfg := &config.Config{}
	cfg.Service.Name = "warc-ingestor"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "console"

	log, err := bootstrap.CreateLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestCreateLogger_InvalidLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Logging.Level = "chatty"

	_, err := bootstrap.CreateLogger(cfg)
	require.Error(t, err)
}
