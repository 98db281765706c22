package transport

import (
	"iter"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// Header is a single name/value pair of a [Headers] list.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered association list of header names to values.
// Names compare case-insensitively: setting a name that is already
// present replaces its value in place, so the last write wins while the
// original position is kept. The zero value is an empty list.
type Headers struct {
	entries []Header
}

// HeadersFrom returns a list holding the entries of m, inserted in
// sorted key order so that case-insensitive duplicates resolve the same
// way on every call.
func HeadersFrom(m map[string]string) Headers {
	var h Headers
	for _, k := range slices.Sorted(maps.Keys(m)) {
		h.Set(k, m[k])
	}

	return h
}

// Set adds name with value, replacing the value of an existing entry
// whose name matches case-insensitively.
func (h *Headers) Set(name, value string) {
	if i := h.index(name); i >= 0 {
		h.entries[i].Value = value
		return
	}
	h.entries = append(h.entries, Header{Name: name, Value: value})
}

// Get returns the value stored under name.
func (h Headers) Get(name string) (string, bool) {
	if i := h.index(name); i >= 0 {
		return h.entries[i].Value, true
	}

	return "", false
}

// Del removes name from the list.
func (h *Headers) Del(name string) {
	if i := h.index(name); i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}
}

func (h Headers) Len() int {
	return len(h.entries)
}

// All iterates the entries in insertion order.
func (h Headers) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, e := range h.entries {
			if !yield(e.Name, e.Value) {
				return
			}
		}
	}
}

// Clone returns a list that shares no storage with h.
func (h Headers) Clone() Headers {
	return Headers{entries: slices.Clone(h.entries)}
}

// HTTPHeader converts the list into an [http.Header] with canonical keys.
func (h Headers) HTTPHeader() http.Header {
	out := make(http.Header, len(h.entries))
	for name, value := range h.All() {
		out.Set(name, value)
	}

	return out
}

func (h Headers) index(name string) int {
	return slices.IndexFunc(h.entries, func(e Header) bool {
		return strings.EqualFold(e.Name, name)
	})
}
