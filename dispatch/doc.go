// Package dispatch serialises outbound HTTP calls through a throttle slot
// and retries transient busy responses.
//
// # Building a Dispatcher
//
// A [Dispatcher] wraps a [Transport], usually one produced by
// [github.com/adamwoolhether/dispatcher/transport.Build]:
//
//	t, err := transport.Build(transport.Config{BaseAddress: "https://api.example.com/"})
//	d, err := dispatch.New(t)
//
// # Pipeline
//
// Every call goes through the same steps:
//
//  1. The target is resolved against the transport's base address. A
//     relative target without a base address fails with
//     [*InvalidTargetError] before anything else happens.
//  2. The throttle slot is acquired. Only one call holds it at a time.
//  3. The request is sent. A 429 or 503 response is retried once after the
//     delay named by its Retry-After header, or one second by default.
//  4. The slot is released after a fixed cooldown (one second by default),
//     on success and failure alike.
//
// [Dispatcher.Send] and [Dispatcher.Head] return the final response as is.
// The other helpers turn a non-2xx final response into a [*StatusError].
//
// # Sharing the slot
//
// Each Dispatcher gets its own slot unless one is injected with [WithSlot].
// Pass [github.com/adamwoolhether/dispatcher/throttle.Shared] to make every
// dispatcher in the process take turns.
package dispatch
