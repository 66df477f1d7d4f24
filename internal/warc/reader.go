// Package warc reads WARC 1.0/1.1 record streams, plain or gzip-compressed.
package warc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const (
	readBufferSize = 64 * 1024
	versionPrefix  = "WARC/"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Reader yields the records of a WARC stream in order. It does not close the
// underlying reader.
type Reader struct {
	br      *bufio.Reader
	gz      *gzip.Reader
	block   *io.LimitedReader
	httpBuf *bufio.Reader
	err     error
}

// NewReader returns a Reader over r. A gzip stream (one member per record or
// a single member) is detected from its magic bytes and decompressed on the
// fly.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, readBufferSize)

	magic, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek warc stream: %w", err)
	}

	rd := &Reader{br: br}
	if len(magic) == len(gzipMagic) && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		gz, gzErr := gzip.NewReader(br)
		if gzErr != nil {
			return nil, fmt.Errorf("open gzip warc stream: %w", gzErr)
		}
		gz.Multistream(true)
		rd.gz = gz
		rd.br = bufio.NewReaderSize(gz, readBufferSize)
	}

	return rd, nil
}

// Next advances to the next record, discarding whatever is left of the
// current one. It returns io.EOF when the stream is exhausted. After any other
// error the Reader is unusable and keeps returning that error.
func (r *Reader) Next() (*Record, error) {
	if r.err != nil {
		return nil, r.err
	}

	rec, err := r.next()
	if err != nil {
		r.err = err
		return nil, err
	}
	return rec, nil
}

func (r *Reader) next() (*Record, error) {
	if err := r.discard(); err != nil {
		return nil, err
	}

	version, err := r.readVersion()
	if err != nil {
		return nil, err
	}

	header, err := readHeader(r.br)
	if err != nil {
		return nil, fmt.Errorf("read warc header: %w", err)
	}

	if !header.Has("Content-Length") {
		return nil, fmt.Errorf("%w: missing Content-Length", ErrInvalidRecord)
	}
	length, err := strconv.ParseInt(strings.TrimSpace(header.Get("Content-Length")), 10, 64)
	if err != nil || length < 0 {
		return nil, fmt.Errorf("%w: bad Content-Length %q", ErrInvalidRecord, header.Get("Content-Length"))
	}

	r.block = &io.LimitedReader{R: r.br, N: length}
	rec := &Record{
		Type:          RecordType(strings.ToLower(header.Get("WARC-Type"))),
		Version:       version,
		Header:        header,
		ContentLength: length,
		Body:          r.block,
	}

	if rec.Type == TypeResponse && rec.IsHTTP() {
		r.parseHTTP(rec)
	}

	return rec, nil
}

// parseHTTP splits the HTTP head off a response block. A block that is not a
// parsable HTTP response keeps an empty HTTPHeader and exposes whatever
// follows the unparsable part as Body.
func (r *Reader) parseHTTP(rec *Record) {
	if r.httpBuf == nil {
		r.httpBuf = bufio.NewReader(r.block)
	} else {
		r.httpBuf.Reset(r.block)
	}

	code, h, err := readHTTPHead(r.httpBuf)
	rec.Body = r.httpBuf
	if err != nil {
		return
	}
	rec.StatusCode = code
	rec.HTTPHeader = h
}

func (r *Reader) readVersion() (string, error) {
	for {
		line, err := r.br.ReadString('\n')
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if err == io.EOF {
				return "", io.EOF
			}
			if err != nil {
				return "", err
			}
			continue
		}
		if !strings.HasPrefix(trimmed, versionPrefix) {
			return "", fmt.Errorf("%w: expected version line, got %q", ErrInvalidRecord, truncate(trimmed, 64))
		}
		if err == io.EOF {
			return "", io.ErrUnexpectedEOF
		}
		if err != nil {
			return "", err
		}
		return strings.TrimPrefix(trimmed, versionPrefix), nil
	}
}

// discard skips the unread rest of the current record block.
func (r *Reader) discard() error {
	if r.block == nil {
		return nil
	}
	block := r.block
	r.block = nil

	if _, err := io.Copy(io.Discard, block); err != nil {
		return fmt.Errorf("skip record block: %w", err)
	}
	if block.N > 0 {
		return fmt.Errorf("skip record block: %w", io.ErrUnexpectedEOF)
	}
	return nil
}

// Close releases the decompressor, if any.
func (r *Reader) Close() error {
	if r.gz != nil {
		return r.gz.Close()
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
