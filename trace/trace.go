// Package trace propagates a per-execution request ID through context
// and the X-Request-ID header, so one retry loop's attempts share a
// single correlatable ID across logs and upstream services.
package trace

import (
	"context"

	"github.com/google/uuid"
)

// contextKey keeps this package's context values unexported.
type contextKey string

const (
	// requestIDKey is the context key for request ID values
	requestIDKey contextKey = "request_id"
	// HeaderXRequestID is the standard header name for request correlation
	HeaderXRequestID = "X-Request-ID"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// IDFromContext returns a request ID from context if present
func IDFromContext(ctx context.Context) (string, bool) {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		return requestID, true
	}
	return "", false
}

// EnsureRequestID returns the context's request ID, generating and
// attaching a new one when absent. The returned context always carries
// the returned ID.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if requestID, ok := IDFromContext(ctx); ok {
		return ctx, requestID
	}
	requestID := uuid.New().String()
	return WithRequestID(ctx, requestID), requestID
}
