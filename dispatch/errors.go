package dispatch

import (
	"errors"
	"fmt"
)

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code.
const maxErrBodySize = 4 << 10 // 4KB

var (
	// ErrInvalidTarget is the sentinel wrapped by [InvalidTargetError].
	ErrInvalidTarget = errors.New("invalid target")
	// ErrUnexpectedStatusCode is the sentinel wrapped by [StatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
)

// InvalidTargetError is returned, before the throttle slot or the network
// are touched, for a target that cannot be resolved.
type InvalidTargetError struct {
	Target string
	Reason string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrInvalidTarget, e.Target, e.Reason)
}

func (e *InvalidTargetError) Unwrap() error {
	return ErrInvalidTarget
}

// StatusError is returned by the body-consuming helpers when the final
// response, after retries, is not a 2xx.
type StatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// TransportError reports a connection, DNS, TLS or body read failure.
// These are never retried by the dispatcher.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FilesystemError reports a failure persisting a download.
type FilesystemError struct {
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
