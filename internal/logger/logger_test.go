package logger_test

import (
	"errors"
	"testing"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{"debug", "debug", zapcore.DebugLevel, false},
		{"upper case", "INFO", zapcore.InfoLevel, false},
		{"empty defaults to info", "", zapcore.InfoLevel, false},
		{"warning alias", "warning", zapcore.WarnLevel, false},
		{"error", "error", zapcore.ErrorLevel, false},
		{"unknown", "verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := logger.ParseLevel(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, logger.ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	cfg := logger.Config{Format: "yaml"}
	cfg.SetDefaults()

	assert.Equal(t, logger.DefaultLevel, cfg.Level)
	assert.Equal(t, logger.DefaultFormat, cfg.Format)
	assert.Equal(t, []string{"stdout"}, cfg.OutputPaths)
}

func TestNew_InvalidLevel(t *testing.T) {
	t.Parallel()

	_, err := logger.New(logger.Config{Level: "loud"})
	require.Error(t, err)
}

func TestNew_WithFields(t *testing.T) {
	t.Parallel()

	base, err := logger.New(logger.Config{Level: "warn", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)

	enriched := base.With(logger.String("service", "warc-ingestor"))
	require.NotNil(t, enriched)
	assert.NotSame(t, base, enriched)

	enriched.Info("filtered out at warn level")
	enriched.Warn("record skipped", logger.Int("remaining", 3), logger.Error(errors.New("boom")))
}

func TestNop(t *testing.T) {
	t.Parallel()

	nop := logger.NewNop()
	nop.Debug("debug")
	nop.Error("error", logger.Bool("ok", false))
	assert.Equal(t, nop, nop.With(logger.String("k", "v")))
	assert.NoError(t, nop.Sync())
}
