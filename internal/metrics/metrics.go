// Package metrics exposes Prometheus metrics for ingestion runs.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
)

const (
	namespace         = "warc_ingestor"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Metrics holds the ingestor's Prometheus collectors.
type Metrics struct {
	RecordsSeen     prometheus.Counter
	RecordsSkipped  *prometheus.CounterVec
	RecordsAccepted prometheus.Counter
	SinkWrites      *prometheus.CounterVec
	MetadataSynced  *prometheus.CounterVec
	RunDuration     *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RecordsSeen: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_seen_total",
			Help:      "Archive records read from the stream",
		}),
		RecordsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Archive records rejected, by reason",
		}, []string{"reason"}),
		RecordsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_accepted_total",
			Help:      "Archive records accepted for ingestion",
		}),
		SinkWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_writes_total",
			Help:      "Writes to the metadata and content sinks, by outcome",
		}, []string{"sink", "outcome"}),
		MetadataSynced: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metadata_synced_total",
			Help:      "Metadata documents copied to the search index, by outcome",
		}, []string{"outcome"}),
		RunDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a run, by mode",
			Buckets:   []float64{0.1, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"mode"}),
	}
}

func (m *Metrics) RecordSeen() {
	m.RecordsSeen.Inc()
}

func (m *Metrics) RecordSkipped(reason string) {
	m.RecordsSkipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordAccepted() {
	m.RecordsAccepted.Inc()
}

func (m *Metrics) RecordWrite(sink, outcome string) {
	m.SinkWrites.WithLabelValues(sink, outcome).Inc()
}

func (m *Metrics) RecordSynced(outcome string) {
	m.MetadataSynced.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRun(mode string, d time.Duration) {
	m.RunDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// Handler returns the /metrics handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes g on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Metrics server listening", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
