package ingest

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/charset"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/domain"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/errkind"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/warc"
)

// Sink names and write outcomes reported to metrics.
const (
	SinkMetadata = "metadata"
	SinkContent  = "content"

	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// Writer persists accepted records to the document store and the search
// index. The two writes are independent: neither one's failure affects the
// other.
type Writer struct {
	store   DocumentStore
	index   SearchIndex
	log     logger.Logger
	metrics Metrics
}

// NewWriter creates a Writer. m may be nil.
func NewWriter(store DocumentStore, index SearchIndex, log logger.Logger, m Metrics) *Writer {
	return &Writer{store: store, index: index, log: log, metrics: metricsOrNop(m)}
}

// WriteMetadata stores the lower-cased response and WARC headers of a record,
// with status injected into the WARC mapping. It does nothing when either
// header set is empty. Failures are logged and returned.
func (w *Writer) WriteMetadata(ctx context.Context, id string, status int, response, container warc.Header) error {
	if response.Len() == 0 || container.Len() == 0 {
		w.log.Debug("Skipping metadata without headers",
			logger.String("id", id),
			logger.Int("response_headers", response.Len()),
			logger.Int("warc_headers", container.Len()),
		)
		w.metrics.RecordWrite(SinkMetadata, OutcomeSkipped)
		return nil
	}

	warcHeaders := lowerHeaders(container, 1)
	warcHeaders.Set(domain.StatusKey, status)

	doc := domain.MetadataDocument{
		ID:       id,
		Response: lowerHeaders(response, 0),
		Warc:     warcHeaders,
	}

	if err := w.store.InsertMetadata(ctx, doc); err != nil {
		w.log.Error("Failed to store metadata",
			logger.String("id", id),
			kindField(err),
			logger.Error(err),
		)
		w.metrics.RecordWrite(SinkMetadata, OutcomeError)
		return err
	}

	w.metrics.RecordWrite(SinkMetadata, OutcomeOK)
	return nil
}

// WriteContent indexes the decoded body of a record under id in index.
// Failures are logged and returned.
func (w *Writer) WriteContent(ctx context.Context, index, id string, body charset.Result) error {
	doc := domain.ContentDocument{
		ID:      id,
		Content: body.Text,
		Title:   extractTitle(body.Text),
		Charset: body.Charset,
	}

	if err := w.index.IndexDocument(ctx, index, id, doc); err != nil {
		w.log.Error("Failed to index content",
			logger.String("id", id),
			logger.String("index", index),
			kindField(err),
			logger.Error(err),
		)
		w.metrics.RecordWrite(SinkContent, OutcomeError)
		return err
	}

	w.metrics.RecordWrite(SinkContent, OutcomeOK)
	return nil
}

func lowerHeaders(h warc.Header, extra int) domain.Headers {
	out := domain.NewHeaders(h.Len() + extra)
	for _, f := range h.Fields() {
		out.Set(f.Name, f.Value)
	}
	return out
}

// extractTitle returns the trimmed text of the first <title> element.
func extractTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
}

func kindField(err error) logger.Field {
	return logger.String("kind", string(errkind.Classify(err)))
}
