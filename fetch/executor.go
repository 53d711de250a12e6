package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/gaborage/go-fetch/logger"
	"github.com/gaborage/go-fetch/trace"
)

const (
	// DefaultTimeout is the per-attempt deadline applied by the
	// configuration layer when the caller supplies none.
	DefaultTimeout = 30 * time.Second

	// DefaultBackoffBase is the delay before the first retry when the
	// policy leaves BackoffBase unset.
	DefaultBackoffBase = 1 * time.Second

	// DefaultMaxRetries is the retry count applied by the configuration
	// layer when the caller supplies none.
	DefaultMaxRetries = 3
)

const (
	contentTypeHeader = "Content-Type"
	contentTypeJSON   = "application/json"

	maxBackoff = time.Duration(math.MaxInt64)
)

// executor implements the Executor interface
type executor struct {
	doer           Doer
	log            logger.Logger
	defaultHeaders map[string]string
	sleep          func(ctx context.Context, d time.Duration) error
}

// Ensure executor implements the interface
var _ Executor = (*executor)(nil)

// NewExecutor creates an executor backed by a plain net/http client.
func NewExecutor(log logger.Logger) Executor {
	return NewBuilder(log).Build()
}

// Builder provides a fluent interface for configuring the executor
type Builder struct {
	doer           Doer
	log            logger.Logger
	defaultHeaders map[string]string
}

// NewBuilder creates a new executor builder
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		log:            log,
		defaultHeaders: make(map[string]string),
	}
}

// WithHTTPClient sets the transport used for individual attempts
func (b *Builder) WithHTTPClient(doer Doer) *Builder {
	b.doer = doer
	return b
}

// WithDefaultHeader adds a header that will be sent with all requests
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.defaultHeaders[key] = value
	return b
}

// Build creates the executor with the configured options
func (b *Builder) Build() Executor {
	doer := b.doer
	if doer == nil {
		// The per-attempt context deadline owns timeout behavior; the
		// client itself must not add a second one.
		doer = &http.Client{}
	}
	return &executor{
		doer:           doer,
		log:            b.log,
		defaultHeaders: b.defaultHeaders,
		sleep:          sleepContext,
	}
}

// Execute performs the request described by spec, retrying transport
// failures according to policy. Any received HTTP response terminates
// the loop as success, whatever its status class. See the package
// documentation for the full retry and backoff contract.
func (e *executor) Execute(ctx context.Context, spec *RequestSpec, policy RetryPolicy) (*Result, error) {
	method, err := validate(spec, policy)
	if err != nil {
		return nil, err
	}

	ctx, requestID := trace.EnsureRequestID(ctx)
	log := e.log.WithFields(map[string]any{"request_id": requestID})

	total := policy.MaxRetries + 1
	start := time.Now()

	ctx, span := tracer.Start(ctx, "http "+method)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", spec.URL),
		attribute.Int("max_attempts", total),
	)

	var (
		lastErr  error
		timeouts int
	)

	for attempt := 1; attempt <= total; attempt++ {
		if attempt > 1 {
			delay := policy.backoffFor(attempt)
			log.Debug().
				Dur("delay", delay).
				Int("next_attempt", attempt).
				Msg("Backing off before retry")
			if err := e.sleep(ctx, delay); err != nil {
				cancelled := NewCancelledError(attempt-1, err)
				e.finishFailure(ctx, log, span, cancelled, method, attempt-1, timeouts, start)
				return nil, cancelled
			}
			retryCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("http.request.method", method),
			))
		}

		log.Info().
			Str("method", method).
			Str("url", spec.URL).
			Int("attempt", attempt).
			Int("max_attempts", total).
			Msg("Executing HTTP request attempt")

		res, err := e.attempt(ctx, method, spec, attempt)
		if err == nil {
			res.Stats = Stats{
				Attempts:    attempt,
				Timeouts:    timeouts,
				ElapsedTime: time.Since(start),
			}
			classifyPayload(res)
			e.finishSuccess(ctx, log, span, res, method)
			return res, nil
		}

		if IsErrorType(err, ConfigError) {
			return nil, err
		}
		if IsErrorType(err, CancelledError) {
			e.finishFailure(ctx, log, span, err, method, attempt, timeouts, start)
			return nil, err
		}

		if kind, ok := KindOf(err); ok && kind == KindTimeout {
			timeouts++
		}
		lastErr = err
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", total).
			Msg("HTTP request attempt failed")
	}

	exhausted := NewExhaustedError(total, lastErr)
	e.finishFailure(ctx, log, span, exhausted, method, total, timeouts, start)
	return nil, exhausted
}

// attempt runs one send-and-await cycle bounded by its own deadline.
func (e *executor) attempt(ctx context.Context, method string, spec *RequestSpec, attempt int) (*Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, spec.Timeout)
	defer cancel()

	attemptCtx, span := tracer.Start(attemptCtx, fmt.Sprintf("http %s attempt %d", method, attempt))
	defer span.End()
	span.SetAttributes(attribute.Int("attempt", attempt))

	req, err := e.buildRequest(attemptCtx, method, spec)
	if err != nil {
		span.SetStatus(codes.Error, "request construction failed")
		return nil, NewConfigError(err.Error(), "request")
	}

	attemptCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.request.method", method),
	))

	resp, err := e.doer.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, classifyFailure(ctx, err, attempt)
	}
	defer resp.Body.Close()

	// Success requires a fully buffered body; a read failure inside the
	// attempt deadline counts as this attempt's transport error.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "response read failed")
		return nil, classifyFailure(ctx, err, attempt)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	return &Result{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// buildRequest constructs an *http.Request and applies headers.
func (e *executor) buildRequest(ctx context.Context, method string, spec *RequestSpec) (*http.Request, error) {
	var body io.Reader
	if len(spec.Body) > 0 && methodAllowsBody(method) {
		body = bytes.NewReader(spec.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, spec.URL, body)
	if err != nil {
		return nil, err
	}

	e.applyHeaders(ctx, req, spec)
	return req, nil
}

// applyHeaders applies default headers, request headers, and the
// correlation header to the HTTP request.
func (e *executor) applyHeaders(ctx context.Context, req *http.Request, spec *RequestSpec) {
	for key, value := range e.defaultHeaders {
		req.Header.Set(key, value)
	}

	// Request-specific headers override defaults
	for key, value := range spec.Headers {
		req.Header.Set(key, value)
	}

	// Set Content-Type if not already set and a body is attached
	if req.Header.Get(contentTypeHeader) == "" && req.Body != nil {
		req.Header.Set(contentTypeHeader, contentTypeJSON)
	}

	if req.Header.Get(trace.HeaderXRequestID) == "" {
		if id, ok := trace.IDFromContext(ctx); ok {
			req.Header.Set(trace.HeaderXRequestID, id)
		}
	}
}

func (e *executor) finishSuccess(ctx context.Context, log logger.Logger, span oteltrace.Span, res *Result, method string) {
	span.SetAttributes(
		attribute.Int("http.response.status_code", res.StatusCode),
		attribute.Int("attempts", res.Stats.Attempts),
	)
	durationHisto.Record(ctx, float64(res.Stats.ElapsedTime.Milliseconds()), metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("outcome", "success"),
	))

	evt := log.Info().
		Str("outcome", "success").
		Int("status", res.StatusCode).
		Int("attempts", res.Stats.Attempts).
		Dur("elapsed", res.Stats.ElapsedTime)
	if res.ParseErr != nil {
		evt = evt.Err(res.ParseErr)
	}
	evt.Msg("HTTP request completed")
}

func (e *executor) finishFailure(ctx context.Context, log logger.Logger, span oteltrace.Span, terminal error, method string, attempts, timeouts int, start time.Time) {
	outcome := "exhausted"
	if IsErrorType(terminal, CancelledError) {
		outcome = "cancelled"
	}

	span.RecordError(terminal)
	span.SetStatus(codes.Error, outcome)
	span.SetAttributes(attribute.Int("attempts", attempts))
	durationHisto.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("outcome", outcome),
	))

	log.Error().
		Err(terminal).
		Str("outcome", outcome).
		Int("attempts", attempts).
		Int("timeouts", timeouts).
		Dur("elapsed", time.Since(start)).
		Msg("HTTP request failed")
}

// validate checks the spec and policy, returning the normalized method.
func validate(spec *RequestSpec, policy RetryPolicy) (string, error) {
	if spec == nil {
		return "", NewConfigError("request spec cannot be nil", "spec")
	}
	if spec.URL == "" {
		return "", NewConfigError("URL cannot be empty", "url")
	}
	u, err := url.Parse(spec.URL)
	if err != nil {
		return "", NewConfigError(fmt.Sprintf("URL is not parseable: %v", err), "url")
	}
	if !u.IsAbs() {
		return "", NewConfigError("URL must be absolute", "url")
	}
	if spec.Timeout <= 0 {
		return "", NewConfigError("timeout must be positive", "timeout")
	}
	if policy.MaxRetries < 0 {
		return "", NewConfigError("max retries cannot be negative", "max_retries")
	}
	if policy.BackoffBase < 0 {
		return "", NewConfigError("backoff base cannot be negative", "backoff_base")
	}

	method := strings.ToUpper(strings.TrimSpace(spec.Method))
	if method == "" {
		method = http.MethodGet
	}
	if _, err := http.NewRequest(method, spec.URL, nil); err != nil {
		return "", NewConfigError(fmt.Sprintf("invalid request: %v", err), "method")
	}
	return method, nil
}

// backoffFor returns the delay inserted before the given attempt.
// Attempt 1 never waits; attempt k waits BackoffBase * 2^(k-2). The
// schedule carries no jitter and no cap; a delay that would overflow
// time.Duration clamps to the maximum representable value.
func (p RetryPolicy) backoffFor(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	base := p.BackoffBase
	if base <= 0 {
		base = DefaultBackoffBase
	}
	shift := uint(attempt - 2)
	if base > maxBackoff>>shift {
		return maxBackoff
	}
	return base << shift
}

// classifyFailure maps a transport-level error to the taxonomy. The
// caller's context ending takes precedence: that is a cancellation of
// the whole execution, not a retryable attempt failure.
func classifyFailure(parentCtx context.Context, err error, attempt int) error {
	if parentCtx.Err() != nil {
		return NewCancelledError(attempt, parentCtx.Err())
	}
	if isTimeout(err) {
		return NewTransportError(KindTimeout, attempt, err)
	}
	return NewTransportError(KindNetwork, attempt, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func methodAllowsBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// classifyPayload decodes the body into Result.Payload when the
// response declares application/json. A declared-but-malformed payload
// records a parse error on the result; the transport outcome stands.
func classifyPayload(res *Result) {
	ct := res.Headers.Get(contentTypeHeader)
	if ct == "" {
		return
	}
	media, _, err := mime.ParseMediaType(ct)
	if err != nil || media != contentTypeJSON {
		return
	}
	var payload any
	if err := json.Unmarshal(res.Body, &payload); err != nil {
		res.ParseErr = NewParseError(media, err)
		return
	}
	res.Payload = payload
}

// sleepContext waits for the given duration unless the context ends
// first, in which case it reports the context's error.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
