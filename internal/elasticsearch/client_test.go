package elasticsearch_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/elasticsearch"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/errkind"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/retry"
)

// mockTransport implements http.RoundTripper for mocking Elasticsearch responses
type mockTransport struct {
	RoundTripFn func(req *http.Request) (*http.Response, error)
}

func (t *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.RoundTripFn(req)
}

func newResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"X-Elastic-Product": []string{"Elasticsearch"}},
	}
}

func newTestClient(t *testing.T, fn func(req *http.Request) (*http.Response, error)) *elasticsearch.Client {
	t.Helper()
	esClient, err := es.NewClient(es.Config{
		Transport:    &mockTransport{RoundTripFn: fn},
		DisableRetry: true,
	})
	require.NoError(t, err)

	healthRetry := retry.Config{InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
	return elasticsearch.New(esClient, logger.NewNop(), time.Second, healthRetry)
}

func TestIndexDocument(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		gotMethod, gotPath = req.Method, req.URL.Path
		require.NoError(t, json.NewDecoder(req.Body).Decode(&gotBody))
		return newResponse(http.StatusCreated, `{"result":"created"}`), nil
	})

	err := client.IndexDocument(context.Background(), "test_content", "abc123", map[string]any{"id": "abc123", "content": "hi"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/test_content/_doc/abc123", gotPath)
	assert.Equal(t, map[string]any{"id": "abc123", "content": "hi"}, gotBody)
}

func TestIndexDocument_SerializationError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return newResponse(http.StatusCreated, `{}`), nil
	})

	err := client.IndexDocument(context.Background(), "idx", "id", map[string]any{"bad": make(chan int)})
	require.Error(t, err)
	assert.Equal(t, errkind.Serialization, errkind.Classify(err))
	assert.Zero(t, calls.Load())
}

func TestIndexDocument_Rejected(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return newResponse(http.StatusBadRequest, `{"error":{"type":"mapper_parsing_exception"}}`), nil
	})

	err := client.IndexDocument(context.Background(), "idx", "id", map[string]any{"a": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
	assert.Equal(t, errkind.Unknown, errkind.Classify(err))
}

func TestIndexDocument_TransportError(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp 127.0.0.1:9200: connect: connection refused")
	})

	err := client.IndexDocument(context.Background(), "idx", "id", map[string]any{"a": 1})
	require.Error(t, err)
	assert.Equal(t, errkind.Connectivity, errkind.Classify(err))
}

func TestDeleteIndex(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "deleted", status: http.StatusOK},
		{name: "missing index is fine", status: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, http.MethodDelete, req.Method)
				assert.Equal(t, "/test_metadata", req.URL.Path)
				return newResponse(tt.status, `{}`), nil
			})

			err := client.DeleteIndex(context.Background(), "test_metadata")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEnsureIndex_CreatesMissingIndex(t *testing.T) {
	var created map[string]any
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		switch req.Method {
		case http.MethodHead:
			return newResponse(http.StatusNotFound, ``), nil
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(req.Body).Decode(&created))
			return newResponse(http.StatusOK, `{"acknowledged":true}`), nil
		}
		t.Fatalf("unexpected request %s %s", req.Method, req.URL.Path)
		return nil, nil
	})

	ok, err := client.EnsureIndex(context.Background(), "test_content", elasticsearch.ContentMapping())
	require.NoError(t, err)
	assert.True(t, ok)

	props := created["mappings"].(map[string]any)["properties"].(map[string]any)
	assert.Contains(t, props, "content")
	assert.Contains(t, props, "id")
}

func TestEnsureIndex_ExistingIndex(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodHead, req.Method)
		return newResponse(http.StatusOK, ``), nil
	})

	ok, err := client.EnsureIndex(context.Background(), "test_content", elasticsearch.ContentMapping())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnsureIndex_CreatedConcurrently(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodHead {
			return newResponse(http.StatusNotFound, ``), nil
		}
		return newResponse(http.StatusBadRequest, `{"error":{"type":"resource_already_exists_exception"}}`), nil
	})

	ok, err := client.EnsureIndex(context.Background(), "test_metadata", elasticsearch.MetadataMapping())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/test_metadata/_search", req.URL.Path)
		return newResponse(http.StatusOK, `{
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_id": "a", "_source": {"id": "a"}},
					{"_id": "b", "_source": {"id": "b"}}
				]
			}
		}`), nil
	})

	res, err := client.Search(context.Background(), "test_metadata", elasticsearch.MatchAll())
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	require.Len(t, res.Hits, 2)
	assert.Equal(t, "a", res.Hits[0].ID)
	assert.Equal(t, "b", res.Hits[1].Source["id"])
}

func TestSearch_IndexNotFound(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return newResponse(http.StatusNotFound, `{"error":{"type":"index_not_found_exception"}}`), nil
	})

	_, err := client.Search(context.Background(), "test_content", elasticsearch.MatchAll())
	require.Error(t, err)
	require.ErrorIs(t, err, errkind.ErrNotFound)
	assert.Contains(t, err.Error(), "test_content")
}

func TestWaitForHealth_RetriesUntilStatus(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/_cluster/health", req.URL.Path)
		assert.Equal(t, "yellow", req.URL.Query().Get("wait_for_status"))
		if calls.Add(1) < 3 {
			return newResponse(http.StatusOK, `{"status":"red","timed_out":true}`), nil
		}
		return newResponse(http.StatusOK, `{"status":"green","timed_out":false}`), nil
	})

	require.NoError(t, client.WaitForHealth(context.Background(), "yellow"))
	assert.Equal(t, int32(3), calls.Load())
}

func TestWaitForHealth_UsesConfiguredRetryHook(t *testing.T) {
	var calls atomic.Int32
	esClient, err := es.NewClient(es.Config{
		Transport: &mockTransport{RoundTripFn: func(*http.Request) (*http.Response, error) {
			if calls.Add(1) < 3 {
				return newResponse(http.StatusOK, `{"status":"red","timed_out":true}`), nil
			}
			return newResponse(http.StatusOK, `{"status":"yellow","timed_out":false}`), nil
		}},
		DisableRetry: true,
	})
	require.NoError(t, err)

	var attempts []int
	healthRetry := retry.Config{
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		OnRetry: func(attempt int, err error, _ time.Duration) {
			assert.ErrorIs(t, err, elasticsearch.ErrClusterNotReady)
			attempts = append(attempts, attempt)
		},
	}
	client := elasticsearch.New(esClient, logger.NewNop(), time.Second, healthRetry)

	require.NoError(t, client.WaitForHealth(context.Background(), "yellow"))
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestWaitForHealth_StopsOnContextDone(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return newResponse(http.StatusOK, `{"status":"red"}`), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.WaitForHealth(ctx, "green")
	require.Error(t, err)
	assert.ErrorIs(t, err, retry.ErrContextCancelled)
}

func TestMappings(t *testing.T) {
	content := elasticsearch.ContentMapping()["mappings"].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "keyword"}, content["charset"])
	assert.Equal(t, map[string]any{"type": "text"}, content["title"])

	metadata := elasticsearch.MetadataMapping()["mappings"].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, true, metadata["metadata"].(map[string]any)["dynamic"])
}

func TestNewClient_BadCACert(t *testing.T) {
	_, err := elasticsearch.NewClient(elasticsearch.Config{CACertPath: "/does/not/exist.pem"}, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read CA certificate")
}
