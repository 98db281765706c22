package dispatch

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultMaxRetries is the number of extra attempts a busy response may trigger.
	DefaultMaxRetries = 1
	// DefaultRetryDelay applies when a busy response has no usable Retry-After.
	DefaultRetryDelay = time.Second
)

// sendWithRetry sends req, retrying 429 and 503 responses while attempts
// remain. The last response is returned whatever its status, together with
// the number of attempts made.
func (d *Dispatcher) sendWithRetry(ctx context.Context, req *http.Request) (*http.Response, int, error) {
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if err := rewind(req); err != nil {
				return nil, attempt, fmt.Errorf("rewinding request: %w", err)
			}
		}

		resp, err := d.t.Do(req)
		if err != nil {
			return nil, attempt + 1, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
		}
		if resp.Request == nil {
			resp.Request = req
		}

		if !isRetryable(resp.StatusCode) || attempt >= d.maxRetries {
			return resp, attempt + 1, nil
		}

		wait, ok := retryAfter(resp.Header, d.now())
		if !ok {
			wait = d.retryDelay
		}

		discard(resp)

		d.logger.Debug("server busy, retrying",
			"status", resp.StatusCode,
			"url", req.URL.String(),
			"attempt", attempt+1,
			"wait", wait.String(),
		)

		if err := sleepCtx(ctx, wait); err != nil {
			return nil, attempt + 1, fmt.Errorf("waiting to retry: %w", err)
		}
	}
}

func isRetryable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

// retryAfter reads the Retry-After header as either delay seconds or an
// HTTP date, normalised to a non-negative wait relative to now.
func retryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0, false
	}

	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		if int64(secs) > maxRetryAfterSeconds {
			return time.Duration(math.MaxInt64), true
		}
		return time.Duration(secs) * time.Second, true
	}

	if at, err := http.ParseTime(v); err == nil {
		return max(at.Sub(now), 0), true
	}

	return 0, false
}

// maxRetryAfterSeconds is the largest delay in seconds a time.Duration holds.
const maxRetryAfterSeconds = math.MaxInt64 / int64(time.Second)

// rewind prepares the request body to be sent again.
func rewind(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}

	if req.GetBody == nil {
		return fmt.Errorf("request body for %s is not rewindable", req.URL)
	}

	body, err := req.GetBody()
	if err != nil {
		return err
	}
	req.Body = body

	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// discard drains and closes a response that will not be handed back.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrBodySize))
	_ = resp.Body.Close()
}
