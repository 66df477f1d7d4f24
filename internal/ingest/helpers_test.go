package ingest_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/domain"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/errkind"
)

// fakeStore is an in-memory DocumentStore.
type fakeStore struct {
	mu        sync.Mutex
	docs      []domain.MetadataDocument
	countErr  error
	insertErr error
	scanErr   error
	dropErr   error
	dropped   int
}

func (s *fakeStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	return int64(len(s.docs)), nil
}

func (s *fakeStore) InsertMetadata(_ context.Context, doc domain.MetadataDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	s.docs = append(s.docs, doc)
	return nil
}

func (s *fakeStore) ForEachMetadata(_ context.Context, fn func(map[string]any) error) error {
	if s.scanErr != nil {
		return s.scanErr
	}
	s.mu.Lock()
	docs := append([]domain.MetadataDocument(nil), s.docs...)
	s.mu.Unlock()

	for _, d := range docs {
		err := fn(map[string]any{
			"id": d.ID,
			"metadata": map[string]any{
				"response": d.Response.Map(),
				"warc":     d.Warc.Map(),
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeStore) Drop(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dropErr != nil {
		return s.dropErr
	}
	s.docs = nil
	s.dropped++
	return nil
}

func (s *fakeStore) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d.ID)
	}
	return out
}

// fakeIndex is an in-memory SearchIndex keyed by index name and document id.
type fakeIndex struct {
	mu        sync.Mutex
	indices   map[string]map[string]any
	healthErr error
	// failIndex, when set, decides per call whether IndexDocument fails.
	failIndex func(index, id string) error

	healthChecks int
	autoIDs      int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indices: make(map[string]map[string]any)}
}

func (f *fakeIndex) WaitForHealth(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthChecks++
	return f.healthErr
}

func (f *fakeIndex) EnsureIndex(_ context.Context, index string, _ map[string]any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.indices[index]; ok {
		return false, nil
	}
	f.indices[index] = make(map[string]any)
	return true, nil
}

func (f *fakeIndex) IndexDocument(_ context.Context, index, id string, doc any) error {
	if f.failIndex != nil {
		if err := f.failIndex(index, id); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indices[index] == nil {
		f.indices[index] = make(map[string]any)
	}
	if id == "" {
		f.autoIDs++
		id = fmt.Sprintf("auto-%d", f.autoIDs)
	}
	f.indices[index][id] = doc
	return nil
}

func (f *fakeIndex) DeleteIndex(_ context.Context, index string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.indices, index)
	return nil
}

func (f *fakeIndex) Refresh(context.Context, string) error {
	return nil
}

func (f *fakeIndex) Search(_ context.Context, index string, _ map[string]any) (*elasticsearch.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	docs, ok := f.indices[index]
	if !ok {
		return nil, fmt.Errorf("search %s: %w", index, errkind.ErrNotFound)
	}
	res := &elasticsearch.SearchResult{Total: int64(len(docs))}
	for id := range docs {
		res.Hits = append(res.Hits, elasticsearch.Hit{ID: id})
	}
	return res, nil
}

func (f *fakeIndex) docIDs(index string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.indices[index]))
	for id := range f.indices[index] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (f *fakeIndex) doc(index, id string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indices[index][id]
}

// fakeSource serves a fixed archive.
type fakeSource struct {
	data    []byte
	err     error
	opened  int
	lastURL string
	closed  bool
}

func (s *fakeSource) Open(_ context.Context, url string) (io.ReadCloser, error) {
	s.opened++
	s.lastURL = url
	if s.err != nil {
		return nil, s.err
	}
	return &trackingCloser{Reader: bytes.NewReader(s.data), closed: &s.closed}, nil
}

type trackingCloser struct {
	io.Reader
	closed *bool
}

func (c *trackingCloser) Close() error {
	*c.closed = true
	return nil
}

// countingMetrics records pipeline events.
type countingMetrics struct {
	mu       sync.Mutex
	seen     int
	accepted int
	skipped  map[string]int
	writes   map[string]int
	synced   map[string]int
	runs     []string
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{skipped: map[string]int{}, writes: map[string]int{}, synced: map[string]int{}}
}

func (m *countingMetrics) RecordSeen() {
	m.mu.Lock()
	m.seen++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordAccepted() {
	m.mu.Lock()
	m.accepted++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordSkipped(reason string) {
	m.mu.Lock()
	m.skipped[reason]++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordWrite(sink, outcome string) {
	m.mu.Lock()
	m.writes[sink+"/"+outcome]++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordSynced(outcome string) {
	m.mu.Lock()
	m.synced[outcome]++
	m.mu.Unlock()
}

func (m *countingMetrics) ObserveRun(mode string, _ time.Duration) {
	m.mu.Lock()
	m.runs = append(m.runs, mode)
	m.mu.Unlock()
}

var errBoom = errors.New("boom")

// warcRecord renders one uncompressed WARC record.
func warcRecord(typ, contentType, block string) string {
	return fmt.Sprintf(
		"WARC/1.0\r\nWARC-Type: %s\r\nWARC-Record-ID: <urn:uuid:%d>\r\nContent-Type: %s\r\nContent-Length: %d\r\n\r\n%s\r\n\r\n",
		typ, len(block), contentType, len(block), block,
	)
}

// htmlResponse renders a response record whose HTTP Content-Type is ct.
func htmlResponse(ct string, status int, body string) string {
	msg := fmt.Sprintf("HTTP/1.1 %d OK\r\nContent-Type: %s\r\nServer: test\r\n\r\n%s", status, ct, body)
	return warcRecord("response", "application/http; msgtype=response", msg)
}

func requestRecord() string {
	return warcRecord("request", "application/http; msgtype=request", "GET / HTTP/1.1\r\nHost: example.com\r\n\r\n")
}

func archive(records ...string) []byte {
	return []byte(strings.Join(records, ""))
}
