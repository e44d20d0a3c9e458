package resilience

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitOpensAfterConsecutiveFailures(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig("svc")
	cfg.FailureThreshold = 3
	cb := NewCircuitBreaker(cfg)

	for i := 0; i < 3; i++ {
		require.True(t, cb.Allow())
		cb.RecordFailure(false)
	}
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestCircuitHalfOpenAfterTimeoutThenCloses(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig("svc")
	cfg.FailureThreshold = 1
	cfg.Timeout = 10 * time.Millisecond
	cfg.SuccessThreshold = 2
	cb := NewCircuitBreaker(cfg)

	cb.Allow()
	cb.RecordFailure(false)
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(15 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.True(t, cb.Allow())
	cb.RecordSuccess()
	assert.Equal(t, StateHalfOpen, cb.State())

	require.True(t, cb.Allow())
	cb.RecordSuccess()
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitHalfOpenReopensOnFailure(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig("svc")
	cfg.FailureThreshold = 1
	cfg.Timeout = 5 * time.Millisecond
	cb := NewCircuitBreaker(cfg)
	cb.Allow()
	cb.RecordFailure(false)
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	cb.Allow()
	cb.RecordFailure(false)
	assert.Equal(t, StateOpen, cb.State())
}

func TestHalfOpenLimitsConcurrentProbes(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig("svc")
	cfg.FailureThreshold = 1
	cfg.Timeout = 5 * time.Millisecond
	cfg.HalfOpenMaxRequests = 1
	cb := NewCircuitBreaker(cfg)
	cb.Allow()
	cb.RecordFailure(false)
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	assert.True(t, cb.Allow())
	assert.False(t, cb.Allow(), "second concurrent probe must be rejected")
}

func TestFailureRateMode(t *testing.T) {
	cfg := DefaultCircuitBreakerConfig("svc")
	cfg.UseFailureRate = true
	cfg.FailureThreshold = 1000 // disable consecutive-failure path
	cfg.MinimumRequests = 4
	cfg.FailureRateThreshold = 50
	cb := NewCircuitBreaker(cfg)

	cb.Allow()
	cb.RecordSuccess()
	cb.Allow()
	cb.RecordSuccess()
	assert.Equal(t, StateClosed, cb.State(), "below minimum requests, must not open")

	cb.Allow()
	cb.RecordFailure(false)
	cb.Allow()
	cb.RecordFailure(false)
	assert.Equal(t, StateOpen, cb.State(), "50%% failure rate at minimum requests must open")
}

func TestMonotonicityNoFlappingWithoutSuccessThreshold(t *testing.T) {
	// Property 3: circuit breaker monotonicity — HalfOpen only
	// transitions to Closed after success_threshold consecutive
	// successes, never earlier.
	cfg := DefaultCircuitBreakerConfig("svc")
	cfg.FailureThreshold = 1
	cfg.Timeout = 5 * time.Millisecond
	cfg.SuccessThreshold = 3
	cb := NewCircuitBreaker(cfg)
	cb.Allow()
	cb.RecordFailure(false)
	time.Sleep(10 * time.Millisecond)
	cb.State()

	cb.Allow()
	cb.RecordSuccess()
	assert.Equal(t, StateHalfOpen, cb.State())
	cb.Allow()
	cb.RecordSuccess()
	assert.Equal(t, StateHalfOpen, cb.State())
}
