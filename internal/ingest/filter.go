package ingest

import "github.com/jonesrussell/north-cloud/warc-ingestor/internal/warc"

// htmlContentType is compared literally: "text/html; charset=utf-8" does not
// match.
const htmlContentType = "text/html"

// Skip reasons reported to metrics.
const (
	ReasonNotResponse = "not_response"
	ReasonNotHTML     = "not_html"
	ReasonResume      = "resume"
)

// Filter selects HTML response records and skips the first n eligible ones,
// where n is the number of records stored by earlier runs.
type Filter struct {
	remainingSkip int64
}

// NewFilter returns a Filter that skips the first skip eligible records.
func NewFilter(skip int64) *Filter {
	if skip < 0 {
		skip = 0
	}
	return &Filter{remainingSkip: skip}
}

// Accept reports whether rec should be ingested and, when it should not, the
// skip reason.
func (f *Filter) Accept(rec *warc.Record) (bool, string) {
	if rec.Type != warc.TypeResponse {
		return false, ReasonNotResponse
	}
	if rec.HTTPHeader.Get("Content-Type") != htmlContentType {
		return false, ReasonNotHTML
	}
	if f.remainingSkip > 0 {
		f.remainingSkip--
		return false, ReasonResume
	}
	return true, ""
}

// RemainingSkip returns how many eligible records are still to be skipped.
func (f *Filter) RemainingSkip() int64 {
	return f.remainingSkip
}
