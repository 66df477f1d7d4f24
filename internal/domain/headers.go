package domain

import "strings"

// StatusKey is the key under which the HTTP status is injected into the WARC
// header mapping.
const StatusKey = "status"

// Headers is an insertion-ordered mapping of lower-cased header names to
// values. Setting an existing name replaces its value and keeps its position.
type Headers struct {
	keys   []string
	values map[string]any
}

// NewHeaders returns an empty mapping with room for n names.
func NewHeaders(n int) Headers {
	return Headers{keys: make([]string, 0, n), values: make(map[string]any, n)}
}

// Set stores value under the lower-cased name.
func (h *Headers) Set(name string, value any) {
	key := strings.ToLower(name)
	if h.values == nil {
		h.values = make(map[string]any)
	}
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = value
}

// Get returns the value stored under the lower-cased name.
func (h Headers) Get(name string) (any, bool) {
	v, ok := h.values[strings.ToLower(name)]
	return v, ok
}

// Len returns the number of distinct names.
func (h Headers) Len() int {
	return len(h.keys)
}

// Keys returns the names in insertion order.
func (h Headers) Keys() []string {
	out := make([]string, len(h.keys))
	copy(out, h.keys)
	return out
}

// Each calls fn for every name in insertion order.
func (h Headers) Each(fn func(name string, value any)) {
	for _, k := range h.keys {
		fn(k, h.values[k])
	}
}

// Map returns the mapping as a plain map.
func (h Headers) Map() map[string]any {
	out := make(map[string]any, len(h.keys))
	for _, k := range h.keys {
		out[k] = h.values[k]
	}
	return out
}
