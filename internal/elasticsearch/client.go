// Package elasticsearch wraps the go-elasticsearch client with the index and
// document operations the ingestor needs.
package elasticsearch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/errkind"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/retry"
)

const (
	defaultURL        = "http://localhost:9200"
	defaultMaxRetries = 3
	defaultTimeout    = 30 * time.Second
	maxErrorBodyBytes = 4096
)

// Config holds the client configuration.
type Config struct {
	URL                string
	Username           string
	Password           string
	CACertPath         string
	InsecureSkipVerify bool
	MaxRetries         int
	// Timeout bounds each individual request.
	Timeout time.Duration
	// HealthRetry drives WaitForHealth. MaxAttempts zero waits until the
	// context is done.
	HealthRetry retry.Config
}

func (c *Config) setDefaults() {
	if c.URL == "" {
		c.URL = defaultURL
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Client performs index and document operations against one cluster.
type Client struct {
	es          *es.Client
	log         logger.Logger
	timeout     time.Duration
	healthRetry retry.Config
}

// NewClient builds a client. No request is made until the first operation.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	cfg.setDefaults()

	transport, err := createTransport(cfg)
	if err != nil {
		return nil, err
	}

	esCfg := es.Config{
		Addresses:  []string{normalizeURL(cfg.URL)},
		Transport:  transport,
		MaxRetries: cfg.MaxRetries,
	}
	if cfg.Username != "" && cfg.Password != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	esClient, err := es.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return New(esClient, log, cfg.Timeout, cfg.HealthRetry), nil
}

// New wraps an existing go-elasticsearch client.
func New(esClient *es.Client, log logger.Logger, timeout time.Duration, healthRetry retry.Config) *Client {
	return &Client{
		es:          esClient,
		log:         log,
		timeout:     timeout,
		healthRetry: healthRetry,
	}
}

// normalizeURL adds an http:// prefix when the scheme is missing.
func normalizeURL(url string) string {
	if url == "" {
		return defaultURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}

func createTransport(cfg Config) (*http.Transport, error) {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		IdleConnTimeout: 90 * time.Second,
	}

	if cfg.CACertPath == "" && !cfg.InsecureSkipVerify {
		return transport, nil
	}

	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // opt-in for self-signed dev clusters
	}
	if cfg.CACertPath != "" {
		pem, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("read CA certificate: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", cfg.CACertPath)
		}
		tlsConfig.RootCAs = pool
	}
	transport.TLSClientConfig = tlsConfig

	return transport, nil
}

// closeResponse drains and closes a response body.
func (c *Client) closeResponse(res *esapi.Response, op string) {
	if res == nil || res.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, res.Body)
	if err := res.Body.Close(); err != nil {
		c.log.Debug("Failed to close response body", logger.String("operation", op), logger.Error(err))
	}
}

// responseError turns an error response into an error. 404 maps to
// errkind.ErrNotFound.
func responseError(res *esapi.Response, op, index string) error {
	body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBodyBytes))
	msg := strings.TrimSpace(string(body))
	if res.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w: %s", target(op, index), errkind.ErrNotFound, msg)
	}
	return fmt.Errorf("%s: [%s] %s", target(op, index), res.Status(), msg)
}

// transportError tags a failed round trip as a connectivity problem unless
// the context ended it.
func transportError(err error, op, index string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return errkind.Wrap(errkind.ErrTimeout, err, target(op, index))
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", target(op, index), err)
	default:
		return errkind.Wrap(errkind.ErrConnectivity, err, target(op, index))
	}
}

func target(op, index string) string {
	if index == "" {
		return op
	}
	return op + " " + index
}

// withTimeout bounds a single request by the configured timeout.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
