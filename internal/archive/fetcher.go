// Package archive opens remote WARC archives as byte streams.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/errkind"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
)

const (
	// DefaultDialTimeout is the default TCP connect timeout.
	DefaultDialTimeout = 30 * time.Second

	// DefaultResponseHeaderTimeout is the default time to wait for response headers.
	DefaultResponseHeaderTimeout = 60 * time.Second

	// DefaultTLSHandshakeTimeout is the default TLS handshake timeout.
	DefaultTLSHandshakeTimeout = 10 * time.Second

	// DefaultIdleConnTimeout is the default idle connection timeout.
	DefaultIdleConnTimeout = 90 * time.Second

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "warc-ingestor/1.0"
)

// ErrUnexpectedStatus is returned when the archive server answers with a
// non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected archive response status")

// ClientConfig configures the archive HTTP client. The client has no overall
// request timeout because archives are streamed for as long as the run lasts;
// the run context bounds the download instead.
type ClientConfig struct {
	DialTimeout           time.Duration
	ResponseHeaderTimeout time.Duration
	UserAgent             string
}

// Fetcher streams archives over HTTP(S).
type Fetcher struct {
	client    *http.Client
	userAgent string
	log       logger.Logger
}

// NewFetcher creates a Fetcher. Zero config values take the defaults.
func NewFetcher(cfg ClientConfig, log logger.Logger) *Fetcher {
	return NewFetcherWithClient(newHTTPClient(cfg), cfg.UserAgent, log)
}

// NewFetcherWithClient creates a Fetcher around an existing HTTP client.
func NewFetcherWithClient(client *http.Client, userAgent string, log logger.Logger) *Fetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{client: client, userAgent: userAgent, log: log}
}

func newHTTPClient(cfg ClientConfig) *http.Client {
	dialTimeout := cfg.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = DefaultDialTimeout
	}
	headerTimeout := cfg.ResponseHeaderTimeout
	if headerTimeout == 0 {
		headerTimeout = DefaultResponseHeaderTimeout
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: dialTimeout}).DialContext,
		TLSHandshakeTimeout:   DefaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: headerTimeout,
		IdleConnTimeout:       DefaultIdleConnTimeout,
		// Archives are usually .warc.gz; the reader detects gzip itself.
		DisableCompression: true,
	}

	return &http.Client{Transport: transport}
}

// Open issues a GET for url and returns the response body. The caller must
// close it.
func (f *Fetcher) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create archive request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errkind.Wrap(errkind.ErrConnectivity, err, "fetch archive")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, errkind.Wrapf(errkind.ErrNotFound, ErrUnexpectedStatus, "fetch archive %s", url)
		}
		return nil, fmt.Errorf("fetch archive %s: %w: %d", url, ErrUnexpectedStatus, resp.StatusCode)
	}

	f.log.Info("Archive stream opened",
		logger.String("url", url),
		logger.Int64("content_length", resp.ContentLength),
		logger.String("content_type", resp.Header.Get("Content-Type")),
	)

	return resp.Body, nil
}
