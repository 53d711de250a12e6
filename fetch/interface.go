package fetch

import (
	"context"
	"net/http"
	"time"
)

// Executor performs HTTP requests with per-attempt deadlines and
// bounded exponential-backoff retries.
type Executor interface {
	Execute(ctx context.Context, spec *RequestSpec, policy RetryPolicy) (*Result, error)
}

// Doer abstracts the transport used for a single request attempt.
// *net/http.Client satisfies it. Implementations must be safe for
// concurrent use.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestSpec describes one HTTP request. It is treated as immutable:
// the executor never modifies it and the same spec may be executed
// concurrently.
type RequestSpec struct {
	// URL is the absolute target URI. Required.
	URL string

	// Method is the HTTP method, normalized to upper case before
	// sending. Empty means GET.
	Method string

	// Headers are applied to every attempt. Keys are case-insensitive
	// per net/http.Header semantics.
	Headers map[string]string

	// Body is attached only for methods that conventionally carry one
	// (POST, PUT, PATCH) and is re-sent from the start on every attempt.
	Body []byte

	// Timeout is the wall-clock deadline for each individual attempt.
	// Must be positive.
	Timeout time.Duration
}

// RetryPolicy bounds the retry loop.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	// Total attempts = MaxRetries + 1. Must be non-negative.
	MaxRetries int

	// BackoffBase is the delay before the first retry; each further
	// retry doubles it. Zero means DefaultBackoffBase.
	BackoffBase time.Duration
}

// Result is the terminal success value: a response was received,
// regardless of its status class. Status interpretation belongs to
// the caller.
type Result struct {
	StatusCode int
	Headers    http.Header
	Body       []byte

	// Payload holds the decoded document when the response declared
	// application/json and the body parsed cleanly; nil otherwise.
	Payload any

	// ParseErr is set when the response declared application/json but
	// the body did not parse. The transport still succeeded, so this
	// never triggers a retry.
	ParseErr error

	Stats Stats
}

// Stats contains request execution statistics.
type Stats struct {
	Attempts    int
	Timeouts    int
	ElapsedTime time.Duration
}

// JSON reports whether the result carries a decoded JSON payload.
func (r *Result) JSON() bool {
	return r.Payload != nil
}
