package warc

import (
	"errors"
	"io"
	"strings"
)

// ErrInvalidRecord is returned when the stream does not hold a well-formed
// WARC record where one is expected.
var ErrInvalidRecord = errors.New("invalid warc record")

// RecordType is the value of the WARC-Type header, lower-cased.
type RecordType string

// Record types handled by the ingestor. Other types pass through with their
// raw WARC-Type value.
const (
	TypeWarcinfo RecordType = "warcinfo"
	TypeRequest  RecordType = "request"
	TypeResponse RecordType = "response"
)

// Record is one entry of a WARC stream. It is only valid until the next call
// to Reader.Next.
type Record struct {
	Type          RecordType
	Version       string
	Header        Header
	ContentLength int64

	// StatusCode and HTTPHeader are set for response records carrying an
	// HTTP message.
	StatusCode int
	HTTPHeader Header

	// Body is the HTTP payload for response records and the whole record
	// block otherwise. It can be read once.
	Body io.Reader
}

// IsHTTP reports whether the record block carries an application/http message.
func (r *Record) IsHTTP() bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/http")
}

// Payload reads the rest of Body and undoes chunked transfer-encoding and
// gzip or deflate content-encoding as declared by the HTTP headers. When a
// declared encoding cannot be undone the raw bytes are returned.
func (r *Record) Payload() ([]byte, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	return decodePayload(raw, r.HTTPHeader), nil
}
