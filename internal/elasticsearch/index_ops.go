package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/errkind"
	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/logger"
)

// EnsureIndex creates index with the given settings and mappings unless it
// already exists. It reports whether the index was created.
func (c *Client) EnsureIndex(ctx context.Context, index string, mapping map[string]any) (bool, error) {
	exists, err := c.indexExists(ctx, index)
	if err != nil {
		return false, err
	}
	if exists {
		c.log.Debug("Index already exists", logger.String("index", index))
		return false, nil
	}

	var buf bytes.Buffer
	if encodeErr := json.NewEncoder(&buf).Encode(mapping); encodeErr != nil {
		return false, errkind.Wrap(errkind.ErrSerialization, encodeErr, "encode mapping "+index)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Indices.Create(
		index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(&buf),
	)
	if err != nil {
		return false, transportError(err, "create index", index)
	}
	defer c.closeResponse(res, "create index")

	if res.IsError() {
		// Another writer may have created it between the two calls.
		if res.StatusCode == http.StatusBadRequest && bodyContains(res.Body, "resource_already_exists_exception") {
			return false, nil
		}
		return false, responseError(res, "create index", index)
	}

	c.log.Info("Created index", logger.String("index", index))
	return true, nil
}

func (c *Client) indexExists(ctx context.Context, index string) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Indices.Exists(
		[]string{index},
		c.es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, transportError(err, "check index", index)
	}
	defer c.closeResponse(res, "check index")

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, responseError(res, "check index", index)
	}
}

// DeleteIndex deletes index. A missing index is not an error.
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Indices.Delete(
		[]string{index},
		c.es.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return transportError(err, "delete index", index)
	}
	defer c.closeResponse(res, "delete index")

	if res.StatusCode == http.StatusNotFound {
		c.log.Debug("Index to delete not found", logger.String("index", index))
		return nil
	}
	if res.IsError() {
		return responseError(res, "delete index", index)
	}

	c.log.Info("Deleted index", logger.String("index", index))
	return nil
}

// Refresh makes recent writes to index visible to search.
func (c *Client) Refresh(ctx context.Context, index string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Indices.Refresh(
		c.es.Indices.Refresh.WithContext(ctx),
		c.es.Indices.Refresh.WithIndex(index),
	)
	if err != nil {
		return transportError(err, "refresh index", index)
	}
	defer c.closeResponse(res, "refresh index")

	if res.IsError() {
		return responseError(res, "refresh index", index)
	}
	return nil
}

func bodyContains(r io.Reader, needle string) bool {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	return err == nil && strings.Contains(string(body), needle)
}
