package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/charset"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/domain"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/warc"
)

const defaultHealthStatus = "yellow"

// Options configures a Controller.
type Options struct {
	ArchiveURL string
	// DBName prefixes both index names.
	DBName string
	// HealthStatus is the minimum cluster status to wait for.
	HealthStatus string
}

// Report summarizes a run.
type Report struct {
	Mode             domain.Mode      `json:"mode"`
	Budget           domain.RunBudget `json:"budget"`
	ResumeCursor     int64            `json:"resume_cursor"`
	UnreachedSkip    int64            `json:"unreached_skip"`
	RecordsSeen      int              `json:"records_seen"`
	RecordsSkipped   int              `json:"records_skipped"`
	RecordsAccepted  int              `json:"records_accepted"`
	Remaining        int              `json:"remaining"`
	MetadataFailures int              `json:"metadata_failures"`
	ContentFailures  int              `json:"content_failures"`
	Sync             SyncStats        `json:"sync"`
	Duration         time.Duration    `json:"duration"`
}

// Controller runs one ingestion or teardown pass.
type Controller struct {
	opts    Options
	store   DocumentStore
	index   SearchIndex
	source  ArchiveSource
	writer  *Writer
	syncer  *Syncer
	log     logger.Logger
	metrics Metrics
}

// NewController wires a Controller. m may be nil.
func NewController(
	opts Options,
	store DocumentStore,
	index SearchIndex,
	source ArchiveSource,
	log logger.Logger,
	m Metrics,
) *Controller {
	if opts.HealthStatus == "" {
		opts.HealthStatus = defaultHealthStatus
	}
	m = metricsOrNop(m)
	return &Controller{
		opts:    opts,
		store:   store,
		index:   index,
		source:  source,
		writer:  NewWriter(store, index, log, m),
		syncer:  NewSyncer(store, index, log, m),
		log:     log,
		metrics: m,
	}
}

// Run executes the mode selected by budget: a positive budget fetches up to
// that many records and then syncs metadata, zero does nothing, and a
// negative budget drops the metadata collection and both indices.
func (c *Controller) Run(ctx context.Context, budget domain.RunBudget) (Report, error) {
	start := time.Now()
	report := Report{Mode: budget.Mode(), Budget: budget}

	var err error
	switch report.Mode {
	case domain.ModeNoop:
		c.log.Info("Run budget is zero, nothing to do")
		return report, nil
	case domain.ModeFetch:
		err = c.fetchAndSync(ctx, int(budget), &report)
	case domain.ModeTeardown:
		err = c.teardown(ctx)
	}

	report.Duration = time.Since(start)
	c.metrics.ObserveRun(string(report.Mode), report.Duration)
	c.logReport(report, err)

	return report, err
}

func (c *Controller) fetchAndSync(ctx context.Context, budget int, report *Report) error {
	if err := c.prepareIndices(ctx); err != nil {
		return err
	}

	report.ResumeCursor = c.resumeCursor(ctx)
	report.Remaining = budget

	fetchErr := c.fetch(ctx, NewFilter(report.ResumeCursor), report)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if fetchErr != nil {
		c.log.Error("Fetch stopped early", kindField(fetchErr), logger.Error(fetchErr))
	}

	report.Sync = c.syncer.SyncAll(ctx, c.opts.DBName)
	c.logMetadataIndexSize(ctx)

	return fetchErr
}

// prepareIndices waits for the cluster and creates both indices if missing.
// Index creation failures are logged; the writes that follow will report
// them per record.
func (c *Controller) prepareIndices(ctx context.Context) error {
	if err := c.index.WaitForHealth(ctx, c.opts.HealthStatus); err != nil {
		return fmt.Errorf("elasticsearch not available: %w", err)
	}

	indices := []struct {
		name    string
		mapping map[string]any
	}{
		{name: domain.ContentIndex(c.opts.DBName), mapping: elasticsearch.ContentMapping()},
		{name: domain.MetadataIndex(c.opts.DBName), mapping: elasticsearch.MetadataMapping()},
	}
	for _, idx := range indices {
		if _, err := c.index.EnsureIndex(ctx, idx.name, idx.mapping); err != nil {
			c.log.Warn("Failed to ensure index",
				logger.String("index", idx.name),
				kindField(err),
				logger.Error(err),
			)
		}
	}
	return nil
}

// resumeCursor returns the number of eligible records already stored. An
// unreachable store counts as empty.
func (c *Controller) resumeCursor(ctx context.Context) int64 {
	n, err := c.store.Count(ctx)
	if err != nil {
		c.log.Warn("Failed to count stored metadata, starting from the beginning",
			kindField(err),
			logger.Error(err),
		)
		return 0
	}
	return n
}

func (c *Controller) fetch(ctx context.Context, filter *Filter, report *Report) error {
	body, err := c.source.Open(ctx, c.opts.ArchiveURL)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() {
		if closeErr := body.Close(); closeErr != nil {
			c.log.Debug("Failed to close archive stream", logger.Error(closeErr))
		}
	}()

	reader, err := warc.NewReader(body)
	if err != nil {
		return fmt.Errorf("open archive reader: %w", err)
	}
	defer reader.Close()

	contentIndex := domain.ContentIndex(c.opts.DBName)

	for report.Remaining > 0 {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rec, nextErr := reader.Next()
		if errors.Is(nextErr, io.EOF) {
			if unreached := filter.RemainingSkip(); unreached > 0 {
				report.UnreachedSkip = unreached
				c.log.Warn("Archive ended before resume point",
					logger.Int64("resume_cursor", report.ResumeCursor),
					logger.Int64("unreached", unreached),
				)
			}
			c.log.Info("Archive exhausted", logger.Int("remaining", report.Remaining))
			return nil
		}
		if nextErr != nil {
			return fmt.Errorf("read archive record: %w", nextErr)
		}

		report.RecordsSeen++
		c.metrics.RecordSeen()

		if ok, reason := filter.Accept(rec); !ok {
			report.RecordsSkipped++
			c.metrics.RecordSkipped(reason)
			continue
		}

		payload, payloadErr := rec.Payload()
		if payloadErr != nil {
			return fmt.Errorf("read record payload: %w", payloadErr)
		}

		report.RecordsAccepted++
		c.metrics.RecordAccepted()

		id := NewID()
		decoded := charset.Decode(payload)

		if writeErr := c.writer.WriteMetadata(ctx, id, rec.StatusCode, rec.HTTPHeader, rec.Header); writeErr != nil {
			report.MetadataFailures++
		}
		if writeErr := c.writer.WriteContent(ctx, contentIndex, id, decoded); writeErr != nil {
			report.ContentFailures++
		}

		report.Remaining--
	}

	return nil
}

func (c *Controller) teardown(ctx context.Context) error {
	if err := c.index.WaitForHealth(ctx, c.opts.HealthStatus); err != nil {
		return fmt.Errorf("elasticsearch not available: %w", err)
	}

	var errs []error
	if err := c.store.Drop(ctx); err != nil {
		c.log.Error("Failed to drop metadata collection", kindField(err), logger.Error(err))
		errs = append(errs, err)
	}

	for _, index := range []string{domain.ContentIndex(c.opts.DBName), domain.MetadataIndex(c.opts.DBName)} {
		if err := c.index.DeleteIndex(ctx, index); err != nil {
			c.log.Error("Failed to delete index", logger.String("index", index), kindField(err), logger.Error(err))
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// logMetadataIndexSize logs how many documents the metadata index holds.
func (c *Controller) logMetadataIndexSize(ctx context.Context) {
	index := domain.MetadataIndex(c.opts.DBName)
	if err := c.index.Refresh(ctx, index); err != nil {
		c.log.Debug("Failed to refresh metadata index", logger.String("index", index), logger.Error(err))
	}

	res, err := c.index.Search(ctx, index, elasticsearch.MatchAll())
	if err != nil {
		c.log.Debug("Failed to query metadata index", logger.String("index", index), kindField(err), logger.Error(err))
		return
	}
	c.log.Debug("Metadata index size", logger.String("index", index), logger.Int64("hits", res.Total))
}

func (c *Controller) logReport(r Report, err error) {
	fields := []logger.Field{
		logger.String("mode", string(r.Mode)),
		logger.Int("budget", int(r.Budget)),
		logger.Int64("resume_cursor", r.ResumeCursor),
		logger.Int("records_seen", r.RecordsSeen),
		logger.Int("records_skipped", r.RecordsSkipped),
		logger.Int("records_accepted", r.RecordsAccepted),
		logger.Int("remaining", r.Remaining),
		logger.Int("metadata_failures", r.MetadataFailures),
		logger.Int("content_failures", r.ContentFailures),
		logger.Int("synced", r.Sync.Indexed),
		logger.Int("sync_failures", r.Sync.Failed),
		logger.Duration("duration", r.Duration),
	}
	if err != nil {
		c.log.Error("Run finished with errors", append(fields, logger.Error(err))...)
		return
	}
	c.log.Info("Run finished", fields...)
}
