package dispatch

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring a [Dispatcher] via [New].
type Option func(*options) error

type options struct {
	gate       Gate
	cooldown   *time.Duration
	retryDelay *time.Duration
	maxRetries *int
	logger     *slog.Logger
	tracer     trace.Tracer
	requestID  *string
}

// WithSlot injects the throttle gate. Sharing one gate between
// dispatchers makes them take turns. It overrides an earlier
// [WithCooldown]; the injected gate owns its own cooldown.
func WithSlot(g Gate) Option {
	return func(o *options) error {
		if g == nil {
			return errors.New("slot must not be nil")
		}
		o.gate = g
		o.cooldown = nil
		return nil
	}
}

// WithCooldown sets the pause applied before the slot is released.
// It configures the dispatcher's own slot and overrides an earlier
// [WithSlot].
func WithCooldown(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("cooldown must not be negative")
		}
		o.cooldown = &d
		o.gate = nil
		return nil
	}
}

// WithRetryDelay sets the wait before a retry when the response carries
// no usable Retry-After header.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("retry delay must not be negative")
		}
		o.retryDelay = &d
		return nil
	}
}

// WithMaxRetries sets how many extra attempts a 429 or 503 may trigger.
func WithMaxRetries(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return errors.New("max retries must not be negative")
		}
		o.maxRetries = &n
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Dispatcher].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithTracer sets the tracer used to record a span per call.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		o.tracer = tracer
		return nil
	}
}

// WithRequestIDHeader names the header that carries a generated request
// ID. An empty name disables the header.
func WithRequestIDHeader(name string) Option {
	return func(o *options) error {
		o.requestID = &name
		return nil
	}
}

// CallOption is a functional option for a single call.
type CallOption func(*callOpts)

type callOpts struct {
	bearerToken string
	header      http.Header
}

// WithBearerToken sends "Authorization: Bearer <token>" with this call,
// replacing the transport's default authorization.
func WithBearerToken(token string) CallOption {
	return func(o *callOpts) {
		o.bearerToken = token
	}
}

// WithHeaders adds custom headers to this call.
func WithHeaders(headers http.Header) CallOption {
	return func(o *callOpts) {
		if o.header == nil {
			o.header = make(http.Header, len(headers))
		}
		for k, v := range headers {
			for _, element := range v {
				o.header.Add(k, element)
			}
		}
	}
}

func (o callOpts) apply(req *Request) {
	if o.bearerToken != "" {
		req.BearerToken = o.bearerToken
	}
	if len(o.header) > 0 {
		if req.Header == nil {
			req.Header = make(http.Header, len(o.header))
		}
		for k, v := range o.header {
			req.Header[k] = append(req.Header[k], v...)
		}
	}
}
