package transport

import (
	"crypto/x509"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultAccept is sent as the Accept header when none is configured.
const DefaultAccept = "application/json"

// CertificateValidator decides whether a server certificate is trusted.
// leaf is the certificate presented by the peer and chain holds the
// remaining certificates it sent. Returning false aborts the handshake.
type CertificateValidator func(leaf *x509.Certificate, chain []*x509.Certificate) bool

// RateLimit configures an optional token bucket in front of the network.
type RateLimit struct {
	RPS   int `validate:"gt=0"`
	Burst int `validate:"gt=0"`
}

// Config describes the transport to build. Treat a Config as immutable
// once it has been handed to [Build].
type Config struct {
	Accept      string
	Referer     string
	UserAgent   string
	BaseAddress string `validate:"omitempty,url"`

	// BearerToken and the Username/Password pair are mutually exclusive.
	BearerToken string
	Username    string
	Password    string

	// Headers are applied after the defaults above and may override them.
	Headers Headers

	Cookies http.CookieJar
	Timeout time.Duration `validate:"gte=0"`

	// DisableCompression turns off gzip, deflate and brotli negotiation.
	DisableCompression bool

	Proxy    *url.URL `validate:"required_if=UseProxy true"`
	UseProxy bool

	VerifyCertificate CertificateValidator

	RateLimit *RateLimit
}

// BasicAuthorization returns the base64 encoded "username:password" pair,
// both parts trimmed, or "" unless both are non-blank.
func (c Config) BasicAuthorization() string {
	user := strings.TrimSpace(c.Username)
	pass := strings.TrimSpace(c.Password)
	if user == "" || pass == "" {
		return ""
	}

	return base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
}

// Validate reports every problem with c as joined [*ConfigurationError]
// values.
func (c Config) Validate() error {
	var errs []error

	hasBearer := strings.TrimSpace(c.BearerToken) != ""
	hasBasic := strings.TrimSpace(c.Username) != "" || strings.TrimSpace(c.Password) != ""
	if hasBearer && hasBasic {
		errs = append(errs, &ConfigurationError{
			Field:   "BearerToken",
			Message: "bearer token and basic credentials cannot both be set",
		})
	}

	// A blank base address means none.
	c.BaseAddress = strings.TrimSpace(c.BaseAddress)
	if err := validateFields(c); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// headers assembles the default request headers in precedence order.
func (c Config) headers() Headers {
	var h Headers

	accept := strings.TrimSpace(c.Accept)
	if accept == "" {
		accept = DefaultAccept
	}
	h.Set("Accept", accept)

	if ua := strings.TrimSpace(c.UserAgent); ua != "" {
		h.Set("User-Agent", ua)
	}
	if ref := strings.TrimSpace(c.Referer); ref != "" {
		h.Set("Referer", ref)
	}

	switch {
	case strings.TrimSpace(c.BearerToken) != "":
		h.Set("Authorization", "Bearer "+strings.TrimSpace(c.BearerToken))
	case c.BasicAuthorization() != "":
		h.Set("Authorization", "Basic "+c.BasicAuthorization())
	}

	for name, value := range c.Headers.All() {
		h.Set(name, value)
	}

	return h
}
