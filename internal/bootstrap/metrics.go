package bootstrap

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/config"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/metrics"
)

// SetupMetrics registers the pipeline collectors and, when an address is
// configured, serves them until the returned stop function is called.
func SetupMetrics(ctx context.Context, cfg *config.Config, log logger.Logger) (*metrics.Metrics, func()) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	if cfg.Metrics.Addr == "" {
		return m, func() {}
	}

	serveCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := metrics.Serve(serveCtx, cfg.Metrics.Addr, reg, log); err != nil {
			log.Warn("Metrics server stopped", logger.Error(err))
		}
	}()

	return m, func() {
		cancel()
		<-done
	}
}
