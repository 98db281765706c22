package transport

import (
	"errors"
	"log/slog"
	"net/http"
)

// Option is a functional option for [Build].
type Option func(*options) error

type options struct {
	rt                http.RoundTripper
	logger            *slog.Logger
	noFollowRedirects bool
}

// WithRoundTripper sets the base [http.RoundTripper] that reaches the
// network. When rt is an [*http.Transport] it is cloned and the proxy,
// TLS and compression settings of the [Config] are applied to the clone;
// any other implementation is used as is.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *options) error {
		if rt == nil {
			return errors.New("round tripper must not be nil")
		}
		o.rt = rt
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the transport.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithNoFollowRedirects prevents the transport from following redirects.
func WithNoFollowRedirects() Option {
	return func(o *options) error {
		o.noFollowRedirects = true
		return nil
	}
}
