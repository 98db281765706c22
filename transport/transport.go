package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/adamwoolhether/dispatcher/throttle"
)

// Transport is a configured HTTP client. It is safe for concurrent use
// and may be shared by any number of dispatchers.
type Transport struct {
	client *http.Client
	base   *url.URL
	header http.Header
	logger *slog.Logger
}

// Build turns cfg into a Transport. It fails with a [*ConfigurationError]
// when cfg does not validate.
func Build(cfg Config, optFns ...Option) (*Transport, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying transport option: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Transport{
		header: cfg.headers().HTTPHeader(),
		logger: slog.Default(),
	}

	if opts.logger != nil {
		t.logger = opts.logger
	}

	if addr := strings.TrimSpace(cfg.BaseAddress); addr != "" {
		base, err := url.Parse(addr)
		if err != nil {
			return nil, &ConfigurationError{Field: "BaseAddress", Message: err.Error()}
		}
		t.base = base
	}

	var rt http.RoundTripper
	switch base := opts.rt.(type) {
	case nil:
		rt = http.DefaultTransport
		if ht, ok := http.DefaultTransport.(*http.Transport); ok {
			rt = networkTransport(cfg, ht)
		}
	case *http.Transport:
		rt = networkTransport(cfg, base)
	default:
		rt = base
	}

	if !cfg.DisableCompression {
		rt = decompressor{next: rt}
	}

	if cfg.RateLimit != nil {
		limited, err := throttle.NewRoundTripper(
			throttle.Config{RPS: cfg.RateLimit.RPS, Burst: cfg.RateLimit.Burst},
			func() *slog.Logger { return t.logger },
			rt,
		)
		if err != nil {
			return nil, &ConfigurationError{Field: "RateLimit", Message: err.Error()}
		}
		rt = limited
	}

	rt = defaultHeaders{header: t.header, next: rt}

	t.client = &http.Client{
		Transport: rt,
		Timeout:   cfg.Timeout,
		Jar:       cfg.Cookies,
	}

	if opts.noFollowRedirects {
		t.client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	t.logger.Debug("transport built",
		"base", t.BaseURL(),
		"compression", !cfg.DisableCompression,
		"proxy", cfg.UseProxy && cfg.Proxy != nil,
		"cookies", cfg.Cookies != nil,
		"custom_tls", cfg.VerifyCertificate != nil,
	)

	return t, nil
}

// Do sends req through the configured client.
func (t *Transport) Do(req *http.Request) (*http.Response, error) {
	return t.client.Do(req)
}

// BaseURL returns a copy of the configured base address, or nil when
// none was configured.
func (t *Transport) BaseURL() *url.URL {
	if t.base == nil {
		return nil
	}
	u := *t.base

	return &u
}

// Header returns a copy of the default headers sent with every request.
func (t *Transport) Header() http.Header {
	return t.header.Clone()
}

// Client exposes the underlying [http.Client].
func (t *Transport) Client() *http.Client {
	return t.client
}

// networkTransport clones base and applies the proxy, TLS and
// compression policy of cfg to the clone.
func networkTransport(cfg Config, base *http.Transport) *http.Transport {
	ht := base.Clone()

	ht.Proxy = nil
	if cfg.UseProxy && cfg.Proxy != nil {
		ht.Proxy = http.ProxyURL(cfg.Proxy)
	}

	// Encoding negotiation is owned by decompressor, or disabled.
	ht.DisableCompression = true

	ht.TLSClientConfig = tlsConfig(cfg.VerifyCertificate)

	return ht
}
