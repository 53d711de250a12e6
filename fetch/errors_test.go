package fetch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		name     string
		err      ClientError
		expected ErrorType
	}{
		{"config", NewConfigError("empty URL", "url"), ConfigError},
		{"transport", NewTransportError(KindNetwork, 1, errors.New("refused")), TransportError},
		{"parse", NewParseError("application/json", errors.New("bad token")), ParseError},
		{"exhausted", NewExhaustedError(3, errors.New("refused")), ExhaustedError},
		{"cancelled", NewCancelledError(2, context.Canceled), CancelledError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Type())
			assert.True(t, IsErrorType(tt.err, tt.expected))
		})
	}
}

func TestIsErrorType(t *testing.T) {
	err := NewConfigError("bad", "url")

	assert.True(t, IsErrorType(err, ConfigError))
	assert.False(t, IsErrorType(err, TransportError))
	assert.False(t, IsErrorType(nil, ConfigError))
	assert.False(t, IsErrorType(errors.New("plain"), ConfigError))
}

func TestIsErrorTypeSeesThroughWrapping(t *testing.T) {
	inner := NewTransportError(KindTimeout, 2, context.DeadlineExceeded)
	wrapped := fmt.Errorf("request failed: %w", inner)

	assert.True(t, IsErrorType(wrapped, TransportError))
}

func TestExhaustedErrorPreservesLastTransportKind(t *testing.T) {
	last := NewTransportError(KindTimeout, 3, context.DeadlineExceeded)
	err := NewExhaustedError(3, last)

	assert.True(t, IsErrorType(err, ExhaustedError))

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, kind)

	attempts, ok := AttemptsOf(err)
	require.True(t, ok)
	assert.Equal(t, 3, attempts)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCancelledErrorWrapsContextError(t *testing.T) {
	err := NewCancelledError(1, context.Canceled)

	assert.ErrorIs(t, err, context.Canceled)
	attempts, ok := AttemptsOf(err)
	require.True(t, ok)
	assert.Equal(t, 1, attempts)
}

func TestKindOfPlainErrors(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)

	_, ok = KindOf(nil)
	assert.False(t, ok)
}

func TestAttemptsOfNonTerminalErrors(t *testing.T) {
	_, ok := AttemptsOf(NewConfigError("bad", "url"))
	assert.False(t, ok)

	_, ok = AttemptsOf(nil)
	assert.False(t, ok)
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"config_with_field", NewConfigError("URL cannot be empty", "url"), "field: url"},
		{"config_without_field", NewConfigError("spec missing", ""), "config error: spec missing"},
		{"transport", NewTransportError(KindTimeout, 2, errors.New("i/o timeout")), "timeout on attempt 2"},
		{"parse", NewParseError("application/json", errors.New("unexpected end")), "application/json"},
		{"exhausted", NewExhaustedError(4, errors.New("refused")), "after 4 attempts"},
		{"cancelled", NewCancelledError(2, context.Canceled), "after 2 attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.err.Error(), tt.contains)
		})
	}
}

func TestIsSuccessStatus(t *testing.T) {
	assert.True(t, IsSuccessStatus(200))
	assert.True(t, IsSuccessStatus(204))
	assert.True(t, IsSuccessStatus(299))
	assert.False(t, IsSuccessStatus(199))
	assert.False(t, IsSuccessStatus(301))
	assert.False(t, IsSuccessStatus(404))
	assert.False(t, IsSuccessStatus(500))
}
