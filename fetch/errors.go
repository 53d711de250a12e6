package fetch

import (
	"errors"
	"fmt"
)

// ClientError represents the different classes of executor errors
type ClientError interface {
	error
	Type() ErrorType
}

// ErrorType defines the category of executor error
type ErrorType string

const (
	// ConfigError marks malformed or missing input. It fails fast:
	// zero attempts are consumed and nothing is retried.
	ConfigError ErrorType = "config"

	// TransportError marks a single attempt that ended without a
	// response (timeout, connection failure). It drives the retry
	// decision and escapes only wrapped inside an exhausted error.
	TransportError ErrorType = "transport"

	// ParseError marks a payload that failed structured decoding after
	// a response was already received. It is carried inside a Result,
	// never returned from Execute.
	ParseError ErrorType = "parse"

	// ExhaustedError marks the terminal failure after every attempt
	// ended in a transport error.
	ExhaustedError ErrorType = "exhausted"

	// CancelledError marks an execution cut short by the caller's
	// context, as distinct from running out of attempts.
	CancelledError ErrorType = "cancelled"
)

// TransportKind distinguishes how an attempt failed to produce a response.
type TransportKind string

const (
	KindTimeout TransportKind = "timeout"
	KindNetwork TransportKind = "network"
)

// configError represents input validation errors
type configError struct {
	message string
	field   string
}

func (e *configError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("config error: %s (field: %s)", e.message, e.field)
	}
	return fmt.Sprintf("config error: %s", e.message)
}

func (e *configError) Type() ErrorType {
	return ConfigError
}

// transportError represents a per-attempt transport failure
type transportError struct {
	kind    TransportKind
	attempt int
	wrapped error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("transport error: %s on attempt %d: %v", e.kind, e.attempt, e.wrapped)
}

func (e *transportError) Type() ErrorType {
	return TransportError
}

func (e *transportError) Kind() TransportKind {
	return e.kind
}

func (e *transportError) Unwrap() error {
	return e.wrapped
}

// parseError represents a payload decoding failure after transport success
type parseError struct {
	contentType string
	wrapped     error
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parse error: %s body did not decode: %v", e.contentType, e.wrapped)
}

func (e *parseError) Type() ErrorType {
	return ParseError
}

func (e *parseError) Unwrap() error {
	return e.wrapped
}

// exhaustedError is the terminal failure once attempts run out. It
// preserves the last transport error for diagnostics.
type exhaustedError struct {
	attempts int
	wrapped  error
}

func (e *exhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.attempts, e.wrapped)
}

func (e *exhaustedError) Type() ErrorType {
	return ExhaustedError
}

func (e *exhaustedError) Attempts() int {
	return e.attempts
}

func (e *exhaustedError) Unwrap() error {
	return e.wrapped
}

// cancelledError is the terminal outcome when the caller's context ends
// before the retry loop does.
type cancelledError struct {
	attempts int
	wrapped  error
}

func (e *cancelledError) Error() string {
	return fmt.Sprintf("execution cancelled after %d attempts: %v", e.attempts, e.wrapped)
}

func (e *cancelledError) Type() ErrorType {
	return CancelledError
}

func (e *cancelledError) Attempts() int {
	return e.attempts
}

func (e *cancelledError) Unwrap() error {
	return e.wrapped
}

// NewConfigError creates a new config error
func NewConfigError(message, field string) ClientError {
	return &configError{
		message: message,
		field:   field,
	}
}

// NewTransportError creates a new transport error for one attempt
func NewTransportError(kind TransportKind, attempt int, wrapped error) ClientError {
	return &transportError{
		kind:    kind,
		attempt: attempt,
		wrapped: wrapped,
	}
}

// NewParseError creates a new parse error
func NewParseError(contentType string, wrapped error) ClientError {
	return &parseError{
		contentType: contentType,
		wrapped:     wrapped,
	}
}

// NewExhaustedError creates the terminal error after attempts ran out
func NewExhaustedError(attempts int, last error) ClientError {
	return &exhaustedError{
		attempts: attempts,
		wrapped:  last,
	}
}

// NewCancelledError creates the terminal error for a cancelled execution
func NewCancelledError(attempts int, cause error) ClientError {
	return &cancelledError{
		attempts: attempts,
		wrapped:  cause,
	}
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// KindOf extracts the transport kind from an error chain. It looks
// through exhausted and cancelled wrappers, so it reports the kind of
// the last attempt's failure.
func KindOf(err error) (TransportKind, bool) {
	var tErr *transportError
	if errors.As(err, &tErr) {
		return tErr.Kind(), true
	}
	return "", false
}

// AttemptsOf extracts the attempt count from a terminal error
// (exhausted or cancelled).
func AttemptsOf(err error) (int, bool) {
	var exErr *exhaustedError
	if errors.As(err, &exErr) {
		return exErr.Attempts(), true
	}
	var cErr *cancelledError
	if errors.As(err, &cErr) {
		return cErr.Attempts(), true
	}
	return 0, false
}

// IsSuccessStatus checks if a status code represents success (2xx)
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
