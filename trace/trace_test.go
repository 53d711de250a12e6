package trace

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Header.Set canonicalizes names, so the constant must already be in
// canonical form or lookups through http.Header would miss it.
func TestHeaderNameIsCanonical(t *testing.T) {
	assert.Equal(t, http.CanonicalHeaderKey(HeaderXRequestID), HeaderXRequestID)
}

func TestEnsureRequestID_UsesExisting(t *testing.T) {
	ctx := WithRequestID(context.Background(), "existing-request-id")
	ctx2, got := EnsureRequestID(ctx)
	assert.Equal(t, "existing-request-id", got)
	out, ok := IDFromContext(ctx2)
	require.True(t, ok)
	assert.Equal(t, "existing-request-id", out)
}

func TestEnsureRequestID_GeneratesWhenMissing(t *testing.T) {
	ctx, got := EnsureRequestID(context.Background())
	_, err := uuid.Parse(got)
	assert.NoError(t, err, "generated ID should be a UUID")

	out, ok := IDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, got, out, "returned context should carry the generated ID")
}

func TestEnsureRequestID_StableAcrossCalls(t *testing.T) {
	ctx, first := EnsureRequestID(context.Background())
	_, second := EnsureRequestID(ctx)
	assert.Equal(t, first, second)
}

func TestRequestID_ContextRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc-123")
	out, ok := IDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc-123", out)
}

func TestIDFromContext_AbsentOrEmpty(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		_, ok := IDFromContext(context.Background())
		assert.False(t, ok)
	})

	t.Run("empty_value", func(t *testing.T) {
		_, ok := IDFromContext(WithRequestID(context.Background(), ""))
		assert.False(t, ok)
	})
}
