package transport

import (
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// defaultHeaders is an http.RoundTripper that adds the configured headers
// to requests that do not already carry them.
type defaultHeaders struct {
	header http.Header
	next   http.RoundTripper
}

func (d defaultHeaders) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	for name, values := range d.header {
		if len(cpy.Header.Values(name)) == 0 {
			cpy.Header[name] = append([]string(nil), values...)
		}
	}

	return d.next.RoundTrip(cpy)
}

const acceptEncoding = "gzip, deflate, br"

// decompressor is an http.RoundTripper that negotiates gzip, deflate and
// brotli and decodes the response body. Requests that set their own
// Accept-Encoding are passed through untouched.
type decompressor struct {
	next http.RoundTripper
}

func (d decompressor) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get("Accept-Encoding") != "" {
		return d.next.RoundTrip(r)
	}

	cpy := r.Clone(r.Context())
	cpy.Header.Set("Accept-Encoding", acceptEncoding)

	resp, err := d.next.RoundTrip(cpy)
	if err != nil {
		return nil, err
	}

	if r.Method == http.MethodHead || resp.Body == nil || resp.Body == http.NoBody {
		return resp, nil
	}

	var open func(io.Reader) (io.Reader, error)
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip", "x-gzip":
		open = func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) }
	case "deflate":
		open = func(r io.Reader) (io.Reader, error) { return zlib.NewReader(r) }
	case "br":
		open = func(r io.Reader) (io.Reader, error) { return brotli.NewReader(r), nil }
	default:
		return resp, nil
	}

	resp.Body = &decodedBody{body: resp.Body, open: open}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true

	return resp, nil
}

// decodedBody opens its decoder on first Read so that empty bodies do not
// fail before the caller looks at them.
type decodedBody struct {
	body io.ReadCloser
	open func(io.Reader) (io.Reader, error)
	r    io.Reader
	err  error
}

func (b *decodedBody) Read(p []byte) (int, error) {
	if b.r == nil && b.err == nil {
		b.r, b.err = b.open(b.body)
	}
	if b.err != nil {
		return 0, b.err
	}

	return b.r.Read(p)
}

func (b *decodedBody) Close() error {
	if c, ok := b.r.(io.Closer); ok {
		_ = c.Close()
	}

	return b.body.Close()
}
