// Package transport builds a ready-to-use HTTP transport from a declarative
// [Config].
//
// # Building a Transport
//
//	t, err := transport.Build(transport.Config{
//		BaseAddress: "https://api.example.com/v1/",
//		UserAgent:   "myapp/1.0",
//		BearerToken: token,
//		Timeout:     30 * time.Second,
//	})
//
// Build validates the configuration eagerly and returns a
// [*ConfigurationError] when it cannot be honoured, for instance when a
// bearer token and basic credentials are both supplied. It performs no
// network I/O.
//
// # Default Headers
//
// Accept (application/json unless configured), User-Agent, Referer and
// Authorization are assembled first, then every entry of [Config.Headers]
// is applied on top with case-insensitive names, so extra headers can
// override the defaults. Defaults are only added to requests that do not
// already carry the header.
//
// # Compression, Proxy and TLS
//
// Unless [Config.DisableCompression] is set, the transport negotiates and
// transparently decodes gzip, deflate and brotli responses. A proxy is used
// only when both [Config.Proxy] and [Config.UseProxy] are set. A
// [CertificateValidator] replaces the system trust evaluation entirely.
package transport
