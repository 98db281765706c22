package throttle

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewRoundTripper returns an http.RoundTripper that spaces outbound requests
// with a token bucket. logFn resolves the logger lazily at request time; a
// nil-returning logFn disables the exhaustion logging.
func NewRoundTripper(cfg Config, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if next == nil {
		next = http.DefaultTransport
	}

	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	b := &bucket{
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
		cfg:     cfg,
		next:    next,
		logFn:   logFn,
	}

	return b, nil
}

func (b *bucket) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	var waited time.Duration
	logger := b.logFn()
	if logger != nil && b.limiter.Tokens() < 1 {
		logger.Debug("rate limit tokens exhausted", "rate", b.cfg.RPS, "burst", b.cfg.Burst, "host", r.URL.Host)

		defer func() {
			logger.Debug("rate limit wait complete", "waited", waited.String(), "host", r.URL.Host)
		}()
	}

	start := time.Now()

	err := b.limiter.Wait(ctx)
	waited = time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return b.next.RoundTrip(r)
}
