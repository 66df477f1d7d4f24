package warc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http/httputil"
	"strconv"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// readHTTPHead parses an HTTP response status line and header block.
func readHTTPHead(br *bufio.Reader) (int, Header, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, Header{}, err
	}

	code, err := parseStatusLine(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return 0, Header{}, err
	}

	h, err := readHeader(br)
	if err != nil {
		return code, h, err
	}
	return code, h, nil
}

func parseStatusLine(line string) (int, error) {
	proto, rest, ok := strings.Cut(line, " ")
	if !ok || !strings.HasPrefix(proto, "HTTP/") {
		return 0, fmt.Errorf("%w: malformed status line %q", ErrInvalidRecord, line)
	}
	codeStr, _, _ := strings.Cut(strings.TrimLeft(rest, " "), " ")
	code, err := strconv.Atoi(codeStr)
	if err != nil || code < 100 || code > 999 {
		return 0, fmt.Errorf("%w: malformed status code %q", ErrInvalidRecord, codeStr)
	}
	return code, nil
}

func decodePayload(raw []byte, h Header) []byte {
	body := raw

	if strings.Contains(strings.ToLower(h.Get("Transfer-Encoding")), "chunked") {
		if dechunked, err := io.ReadAll(httputil.NewChunkedReader(bytes.NewReader(body))); err == nil {
			body = dechunked
		}
	}

	switch strings.ToLower(strings.TrimSpace(h.Get("Content-Encoding"))) {
	case "gzip", "x-gzip":
		if out, err := gunzip(body); err == nil {
			body = out
		}
	case "deflate":
		if out, err := inflate(body); err == nil {
			body = out
		}
	}

	return body
}

func gunzip(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// inflate handles both zlib-wrapped and raw deflate streams, since servers
// send either for Content-Encoding: deflate.
func inflate(b []byte) ([]byte, error) {
	if zr, err := zlib.NewReader(bytes.NewReader(b)); err == nil {
		defer zr.Close()
		if out, readErr := io.ReadAll(zr); readErr == nil {
			return out, nil
		}
	}
	fr := flate.NewReader(bytes.NewReader(b))
	defer fr.Close()
	return io.ReadAll(fr)
}
