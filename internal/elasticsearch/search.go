package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/errkind"
)

// Hit is one search hit.
type Hit struct {
	ID     string         `json:"_id"`
	Source map[string]any `json:"_source"`
}

// SearchResult holds the total hit count and the returned hits.
type SearchResult struct {
	Total int64
	Hits  []Hit
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []Hit `json:"hits"`
	} `json:"hits"`
}

// MatchAll is a query matching every document.
func MatchAll() map[string]any {
	return map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
	}
}

// Search runs query against index. A missing index yields an error of kind
// errkind.NotFound.
func (c *Client) Search(ctx context.Context, index string, query map[string]any) (*SearchResult, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, errkind.Wrap(errkind.ErrSerialization, err, "encode query")
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(&buf),
		c.es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, transportError(err, "search", index)
	}
	defer c.closeResponse(res, "search")

	if res.IsError() {
		return nil, responseError(res, "search", index)
	}

	var parsed searchResponse
	if decodeErr := json.NewDecoder(res.Body).Decode(&parsed); decodeErr != nil {
		return nil, fmt.Errorf("decode search response: %w", decodeErr)
	}

	return &SearchResult{Total: parsed.Hits.Total.Value, Hits: parsed.Hits.Hits}, nil
}
