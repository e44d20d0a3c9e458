package mofaerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTransient(t *testing.T) {
	cases := []struct {
		kind Kind
		want bool
	}{
		{Timeout, true},
		{ResourceUnavailable, true},
		{IoError, true},
		{ExecutionFailed, true},
		{CoordinationError, true},
		{Internal, false},
		{ToolExecutionFailed, false},
		{ValidationFailed, false},
	}
	for _, c := range cases {
		err := New(c.kind, "boom")
		assert.Equalf(t, c.want, IsTransient(err), "kind=%s", c.kind)
	}
}

func TestIsRetryableSupersetOfTransient(t *testing.T) {
	for _, k := range []Kind{Internal, ToolExecutionFailed, ReasoningError, MemoryError} {
		err := New(k, "boom")
		assert.False(t, IsTransient(err), "kind=%s should not be transient", k)
		assert.True(t, IsRetryable(err), "kind=%s should be retryable", k)
	}
	assert.False(t, IsRetryable(New(ValidationFailed, "boom")))
}

func TestPermanentErrorNotRetried(t *testing.T) {
	// Property 4: a permanent error is not retried.
	err := New(ValidationFailed, "bad input")
	require.False(t, IsRetryable(err))
}

func TestKindOfWalksChain(t *testing.T) {
	inner := New(Timeout, "deadline exceeded")
	wrapped := Wrap(ExecutionFailed, "node failed", inner)
	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, ExecutionFailed, kind)
	assert.True(t, errors.Is(wrapped, wrapped))
}

func TestToReportCapturesFrame(t *testing.T) {
	r := ToReport(New(NotFound, "missing"))
	require.NotNil(t, r)
	require.Len(t, r.Frames, 1)
	assert.Contains(t, r.Error(), "not_found: missing")
}

func TestToolExecutionFailedMessage(t *testing.T) {
	err := NewToolExecutionFailed("calc", "division by zero", nil)
	assert.Contains(t, err.Error(), `tool "calc"`)
}

func TestInvalidStateTransitionMessage(t *testing.T) {
	err := NewInvalidStateTransition("Ready", "Created")
	assert.Contains(t, err.Error(), "Ready -> Created")
}
