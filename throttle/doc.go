// Package throttle gates outbound HTTP traffic.
//
// # Slot
//
// A [Slot] admits a single caller at a time. Releasing it first waits out
// a fixed cooldown, so throughput is bounded by one request per
// round-trip plus cooldown no matter how many goroutines are waiting:
//
//	slot := throttle.NewSlot(time.Second)
//	if err := slot.Acquire(ctx); err != nil {
//		return err
//	}
//	defer slot.Release()
//
// [Shared] returns a process-wide slot for callers that want every
// dispatcher in the process to take turns.
//
// # Token bucket
//
// [NewRoundTripper] wraps an [http.RoundTripper] with a token-bucket
// limiter from [golang.org/x/time/rate]:
//
//	rt, err := throttle.NewRoundTripper(
//		throttle.Config{RPS: 10, Burst: 5},
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//
// When the bucket is empty, requests block until a token becomes
// available or the request context ends.
package throttle
