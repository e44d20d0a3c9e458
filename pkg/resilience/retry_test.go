package resilience

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mofa-run/mofa/pkg/mofaerr"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	p := DefaultRetryPolicy()
	p.MaxAttempts = 3
	p.Base = 1 // nanoseconds, keep the test fast

	attempts := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return mofaerr.New(mofaerr.Timeout, "slow")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryDoesNotRetryPermanentError(t *testing.T) {
	// Property 4: retry respects is_transient.
	p := DefaultRetryPolicy()
	attempts := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return mofaerr.New(mofaerr.ValidationFailed, "bad input")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryExhaustsMaxAttempts(t *testing.T) {
	p := DefaultRetryPolicy()
	p.MaxAttempts = 2
	p.Base = 1
	attempts := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return mofaerr.New(mofaerr.Timeout, "slow")
	})
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}
