package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/retry"
)

// ErrClusterNotReady is returned by a health probe that did not reach the
// wanted status.
var ErrClusterNotReady = errors.New("cluster not ready")

type healthResponse struct {
	Status   string `json:"status"`
	TimedOut bool   `json:"timed_out"`
}

// WaitForHealth blocks until the cluster reports at least the given status
// (green, yellow or red), retrying with backoff until the context is done.
// A configured OnRetry hook replaces the default warning.
func (c *Client) WaitForHealth(ctx context.Context, status string) error {
	cfg := c.healthRetry
	if cfg.OnRetry == nil {
		cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
			c.log.Warn("Elasticsearch not ready, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Error(err),
			)
		}
	}

	if err := retry.Retry(ctx, cfg, func() error {
		return c.checkHealth(ctx, status)
	}); err != nil {
		return fmt.Errorf("wait for cluster health %s: %w", status, err)
	}

	c.log.Info("Elasticsearch cluster healthy", logger.String("status", status))
	return nil
}

func (c *Client) checkHealth(ctx context.Context, status string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Cluster.Health(
		c.es.Cluster.Health.WithContext(ctx),
		c.es.Cluster.Health.WithWaitForStatus(status),
	)
	if err != nil {
		return transportError(err, "cluster health", "")
	}
	defer c.closeResponse(res, "cluster health")

	if res.IsError() {
		return responseError(res, "cluster health", "")
	}

	var health healthResponse
	if decodeErr := json.NewDecoder(res.Body).Decode(&health); decodeErr != nil {
		return fmt.Errorf("decode cluster health: %w", decodeErr)
	}

	if health.TimedOut || statusRank(health.Status) < statusRank(status) {
		return fmt.Errorf("%w: status %q", ErrClusterNotReady, health.Status)
	}
	return nil
}

func statusRank(status string) int {
	switch status {
	case "green":
		return 3
	case "yellow":
		return 2
	case "red":
		return 1
	default:
		return 0
	}
}
