package transport_test

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/dispatcher/transport"
)

func collect(h transport.Headers) []transport.Header {
	var out []transport.Header
	for name, value := range h.All() {
		out = append(out, transport.Header{Name: name, Value: value})
	}
	return out
}

func TestHeaders_SetOverridesCaseInsensitively(t *testing.T) {
	var h transport.Headers
	h.Set("Accept", "application/json")
	h.Set("X-Trace", "one")
	h.Set("accept", "text/html")
	h.Set("X-TRACE", "two")

	exp := []transport.Header{
		{Name: "Accept", Value: "text/html"},
		{Name: "X-Trace", Value: "two"},
	}
	if diff := cmp.Diff(exp, collect(h)); diff != "" {
		t.Errorf("headers mismatch (-exp +got):\n%s", diff)
	}

	if v, ok := h.Get("ACCEPT"); !ok || v != "text/html" {
		t.Errorf("exp Get to ignore case, got %q, %v", v, ok)
	}
}

func TestHeaders_Del(t *testing.T) {
	var h transport.Headers
	h.Set("A", "1")
	h.Set("B", "2")
	h.Del("a")

	if h.Len() != 1 {
		t.Fatalf("exp 1 entry, got %d", h.Len())
	}
	if _, ok := h.Get("A"); ok {
		t.Error("exp A to be removed")
	}
}

func TestHeadersFrom_IsDeterministic(t *testing.T) {
	m := map[string]string{"x-key": "lower", "X-Key": "upper", "Accept": "text/plain"}

	for range 10 {
		h := transport.HeadersFrom(m)
		if v, _ := h.Get("x-key"); v != "lower" {
			t.Fatalf("exp sorted insertion to let %q win, got %q", "x-key", v)
		}
	}
}

func TestHeaders_CloneIsIndependent(t *testing.T) {
	var h transport.Headers
	h.Set("A", "1")

	c := h.Clone()
	c.Set("A", "2")

	if v, _ := h.Get("A"); v != "1" {
		t.Errorf("exp original untouched, got %q", v)
	}
}

func TestHeaders_HTTPHeader(t *testing.T) {
	var h transport.Headers
	h.Set("x-custom-header", "v")

	exp := http.Header{"X-Custom-Header": {"v"}}
	if diff := cmp.Diff(exp, h.HTTPHeader()); diff != "" {
		t.Errorf("header mismatch (-exp +got):\n%s", diff)
	}
}
