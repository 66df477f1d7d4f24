package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/jonesrussell/north-cloud/warc-ingestor/internal/errkind"
)

// IndexDocument stores doc under id in index, replacing any document with
// the same id.
func (c *Client) IndexDocument(ctx context.Context, index, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return errkind.Wrap(errkind.ErrSerialization, err, "encode document "+id)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	res, err := c.es.Index(
		index,
		bytes.NewReader(body),
		c.es.Index.WithContext(ctx),
		c.es.Index.WithDocumentID(id),
	)
	if err != nil {
		return transportError(err, "index document", index)
	}
	defer c.closeResponse(res, "index document")

	if res.IsError() {
		return responseError(res, "index document", index)
	}
	return nil
}
