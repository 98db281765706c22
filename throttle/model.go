package throttle

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config defines the token bucket's
// Requests Per Second and Burst Rate.
type Config struct {
	RPS   int
	Burst int
}

// Validate reports whether both values are usable by a limiter.
func (c Config) Validate() error {
	if c.RPS <= 0 || c.Burst <= 0 {
		return fmt.Errorf("rps[%d] and burst[%d] %w", c.RPS, c.Burst, ErrMustNotBeZero)
	}

	return nil
}

// bucket is an http.RoundTripper, using the time/rate token
// bucket limiter to restrict outbound calls.
type bucket struct {
	limiter *rate.Limiter
	cfg     Config
	next    http.RoundTripper
	logFn   func() *slog.Logger
}
