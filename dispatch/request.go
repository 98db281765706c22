package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request describes a call for [Dispatcher.Send]. Target is either an
// absolute URL or a reference resolved against the transport's base
// address. A non-empty BearerToken replaces the transport's default
// authorization for this call only.
type Request struct {
	Method      string
	Target      string
	Body        []byte
	Header      http.Header
	BearerToken string
}

// Target appends query to path, escaping keys and values and sorting
// by key.
func Target(path string, query map[string]string) string {
	if len(query) == 0 {
		return path
	}

	values := make(url.Values, len(query))
	for k, v := range query {
		values.Set(k, v)
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	return path + sep + values.Encode()
}

// resolve validates target and makes it absolute. Leading slashes of a
// relative path are dropped so that it resolves under the base path:
// "/users" against "https://h/v1/" is "https://h/v1/users".
func (d *Dispatcher) resolve(target string) (*url.URL, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, &InvalidTargetError{Target: target, Reason: err.Error()}
	}

	if u.IsAbs() {
		return u, nil
	}

	base := d.t.BaseURL()
	if base == nil {
		return nil, &InvalidTargetError{Target: target, Reason: "relative target requires a base address"}
	}

	if u.Host == "" {
		u.Path = strings.TrimLeft(u.Path, "/")
		u.RawPath = strings.TrimLeft(u.RawPath, "/")
	}

	return base.ResolveReference(u), nil
}

// newHTTPRequest builds the request sent, and re-sent on retry, for r.
func (d *Dispatcher) newHTTPRequest(ctx context.Context, r Request, target *url.URL) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for k, v := range r.Header {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	if r.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(r.BearerToken))
	}

	if d.requestID != "" && req.Header.Get(d.requestID) == "" {
		req.Header.Set(d.requestID, d.newID())
	}

	return req, nil
}
