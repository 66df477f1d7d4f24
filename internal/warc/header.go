package warc

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Field is a single header line.
type Field struct {
	Name  string
	Value string
}

// Header is an ordered list of header fields with case-insensitive lookup.
// Repeated names are kept in order of appearance.
type Header struct {
	fields []Field
}

// Add appends a field.
func (h *Header) Add(name, value string) {
	h.fields = append(h.fields, Field{Name: name, Value: value})
}

// Get returns the value of the first field whose name matches name
// case-insensitively, or "" when there is none.
func (h Header) Get(name string) string {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Has reports whether a field named name is present.
func (h Header) Has(name string) bool {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

// Len returns the number of fields.
func (h Header) Len() int {
	return len(h.fields)
}

// Fields returns a copy of the fields in order.
func (h Header) Fields() []Field {
	out := make([]Field, len(h.fields))
	copy(out, h.fields)
	return out
}

// readHeader reads "Name: value" lines up to and including the first empty
// line. Lines starting with a space or tab continue the previous value.
func readHeader(br *bufio.Reader) (Header, error) {
	var h Header
	for {
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return h, io.ErrUnexpectedEOF
			}
			return h, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return h, nil
		}

		if (line[0] == ' ' || line[0] == '\t') && len(h.fields) > 0 {
			last := &h.fields[len(h.fields)-1]
			last.Value += " " + strings.TrimSpace(line)
		} else {
			name, value, ok := strings.Cut(line, ":")
			if !ok {
				return h, fmt.Errorf("%w: malformed header line %q", ErrInvalidRecord, line)
			}
			h.Add(strings.TrimSpace(name), strings.TrimSpace(value))
		}

		if err == io.EOF {
			return h, io.ErrUnexpectedEOF
		}
	}
}
