package bootstrap

import (
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/config"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/retry"
)

const healthRetryMultiplier = 2.0

// SetupElasticsearch creates an Elasticsearch client. The health wait retries
// until the run context is cancelled.
func SetupElasticsearch(cfg *config.Config, log logger.Logger) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		URL:                cfg.Elasticsearch.URL,
		Username:           cfg.Elasticsearch.Username,
		Password:           cfg.Elasticsearch.Password,
		CACertPath:         cfg.Elasticsearch.CACertPath,
		InsecureSkipVerify: cfg.Elasticsearch.InsecureSkipVerify,
		MaxRetries:         cfg.Elasticsearch.MaxRetries,
		Timeout:            cfg.Elasticsearch.Timeout,
		HealthRetry: retry.Config{
			InitialDelay: cfg.Elasticsearch.RetryInitialDelay,
			MaxDelay:     cfg.Elasticsearch.RetryMaxDelay,
			Multiplier:   healthRetryMultiplier,
			OnRetry: func(attempt int, err error, delay time.Duration) {
				log.Warn("Elasticsearch not ready, retrying",
					logger.String("url", cfg.Elasticsearch.URL),
					logger.Int("attempt", attempt),
					logger.Duration("retry_in", delay),
					logger.Error(err),
				)
			},
		},
	}

	client, err := elasticsearch.NewClient(esCfg, log)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return client, nil
}
