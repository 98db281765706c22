package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/dispatcher/download"
	"github.com/adamwoolhether/dispatcher/throttle"
)

// DefaultRequestIDHeader carries the ID generated for every call.
const DefaultRequestIDHeader = "X-Request-ID"

// Transport sends a single request. *transport.Transport satisfies it.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
	BaseURL() *url.URL
}

// Gate serialises calls. *throttle.Slot satisfies it.
type Gate interface {
	Acquire(ctx context.Context) error
	Release()
}

// Dispatcher sends requests one at a time through its gate, retrying
// busy responses and pausing between calls.
type Dispatcher struct {
	t          Transport
	gate       Gate
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
	tracer     trace.Tracer
	requestID  string
	newID      func() string
	now        func() time.Time
}

// New constructs a Dispatcher on top of t.
func New(t Transport, optFns ...Option) (*Dispatcher, error) {
	if t == nil {
		return nil, errors.New("transport must not be nil")
	}

	var o options
	for _, opt := range optFns {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	d := Dispatcher{
		t:          t,
		gate:       o.gate,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		logger:     slog.Default(),
		tracer:     noop.NewTracerProvider().Tracer("no-op tracer"),
		requestID:  DefaultRequestIDHeader,
		newID:      uuid.NewString,
		now:        time.Now,
	}

	if d.gate == nil {
		cooldown := throttle.DefaultCooldown
		if o.cooldown != nil {
			cooldown = *o.cooldown
		}
		d.gate = throttle.NewSlot(cooldown)
	}
	if o.maxRetries != nil {
		d.maxRetries = *o.maxRetries
	}
	if o.retryDelay != nil {
		d.retryDelay = *o.retryDelay
	}
	if o.logger != nil {
		d.logger = o.logger
	}
	if o.tracer != nil {
		d.tracer = o.tracer
	}
	if o.requestID != nil {
		d.requestID = *o.requestID
	}

	return &d, nil
}

// Head sends a HEAD request and returns the final response without
// checking its status. The caller must close the body.
func (d *Dispatcher) Head(ctx context.Context, target string) (*http.Response, error) {
	return d.Send(ctx, Request{Method: http.MethodHead, Target: target})
}

// Get sends a GET request and returns the body of a successful response.
func (d *Dispatcher) Get(ctx context.Context, target string, optFns ...CallOption) (string, error) {
	r := Request{Method: http.MethodGet, Target: target}
	applyCall(&r, optFns)

	var body []byte
	err := d.call(ctx, "get", r, func(resp *http.Response) error {
		var err error
		body, err = readSuccess(resp)
		return err
	})
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Post sends payload encoded as JSON and returns the body of a successful
// response.
func (d *Dispatcher) Post(ctx context.Context, target string, payload any, optFns ...CallOption) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding payload: %w", err)
	}

	r := Request{
		Method: http.MethodPost,
		Target: target,
		Body:   data,
		Header: http.Header{"Content-Type": {"application/json"}},
	}
	applyCall(&r, optFns)

	var body []byte
	err = d.call(ctx, "post", r, func(resp *http.Response) error {
		var err error
		body, err = readSuccess(resp)
		return err
	})
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// Send dispatches r and returns the final response without checking its
// status. The caller must close the body.
func (d *Dispatcher) Send(ctx context.Context, r Request) (*http.Response, error) {
	var out *http.Response
	err := d.call(ctx, "send", r, func(resp *http.Response) error {
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// SendString dispatches r and returns the body of a successful response.
func (d *Dispatcher) SendString(ctx context.Context, r Request) (string, error) {
	var body []byte
	err := d.call(ctx, "send", r, func(resp *http.Response) error {
		var err error
		body, err = readSuccess(resp)
		return err
	})
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// PageContent fetches target and returns its body. The body is read
// after the slot has been released.
func (d *Dispatcher) PageContent(ctx context.Context, target string) (string, error) {
	resp, err := d.successful(ctx, "page_content", Request{Method: http.MethodGet, Target: target})
	if err != nil {
		return "", err
	}

	body, err := readBody(resp)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

// DownloadFile fetches target into memory and resolves its file name
// from the Content-Disposition header or the requested path. Redirects do
// not change the name.
func (d *Dispatcher) DownloadFile(ctx context.Context, target string) (*download.File, error) {
	requested, err := d.resolve(target)
	if err != nil {
		return nil, err
	}

	resp, err := d.successful(ctx, "download", Request{Method: http.MethodGet, Target: target})
	if err != nil {
		return nil, err
	}

	content, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	return &download.File{
		Content: content,
		Name:    download.ResolveName(resp.Header, requested),
	}, nil
}

// DownloadFileToPath fetches target and writes it to destPath, replacing
// any existing file. It returns the written file's info.
func (d *Dispatcher) DownloadFileToPath(ctx context.Context, target, destPath string, optFns ...download.Option) (fs.FileInfo, error) {
	file, err := d.DownloadFile(ctx, target)
	if err != nil {
		return nil, err
	}

	if err := file.Save(ctx, destPath, d.logger, optFns...); err != nil {
		return nil, &FilesystemError{Path: destPath, Err: err}
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return nil, &FilesystemError{Path: destPath, Err: err}
	}

	return info, nil
}

// successful runs r and hands back a 2xx response whose body is still
// unread. The slot is already released when it returns.
func (d *Dispatcher) successful(ctx context.Context, op string, r Request) (*http.Response, error) {
	var out *http.Response
	err := d.call(ctx, op, r, func(resp *http.Response) error {
		if err := ensureSuccess(resp); err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// call validates the target, takes the gate and sends r with retries. fn
// runs while the gate is held and owns the response: it must close the
// body unless it keeps the response. The cooldown is paid on every path
// once the gate is taken.
func (d *Dispatcher) call(ctx context.Context, op string, r Request, fn func(*http.Response) error) error {
	target, err := d.resolve(r.Target)
	if err != nil {
		return err
	}

	ctx, span := d.tracer.Start(ctx, "dispatch."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := d.newHTTPRequest(ctx, r, target)
	if err != nil {
		return spanError(span, err)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	span.SetAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.full", target.String()),
	)

	if err := d.gate.Acquire(ctx); err != nil {
		return spanError(span, fmt.Errorf("acquiring slot: %w", err))
	}
	defer func() {
		d.logger.Debug("releasing slot", "op", op, "url", target.String())
		d.gate.Release()
	}()

	resp, attempts, err := d.sendWithRetry(ctx, req)
	span.SetAttributes(attribute.Int("http.request.attempts", attempts))
	if err != nil {
		return spanError(span, err)
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if err := fn(resp); err != nil {
		return spanError(span, err)
	}

	return nil
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func applyCall(r *Request, optFns []CallOption) {
	var o callOpts
	for _, fn := range optFns {
		fn(&o)
	}
	o.apply(r)
}

// ensureSuccess returns a StatusError, and closes the body, when resp is
// not a 2xx.
func ensureSuccess(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))

	statusErr := ErrUnexpectedStatusCode
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		statusErr = errors.Join(ErrUnexpectedStatusCode, ErrAuthFailure)
	}

	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       string(bytes.TrimSpace(body)),
		Err:        statusErr,
	}
}

func readSuccess(resp *http.Response) ([]byte, error) {
	if err := ensureSuccess(resp); err != nil {
		return nil, err
	}

	return readBody(resp)
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: resp.Request.Method, URL: resp.Request.URL.String(), Err: fmt.Errorf("reading body: %w", err)}
	}

	return body, nil
}
