package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// RetryPolicy implements exponential backoff with jitter, bounded by a
// cap per delay and an optional overall deadline.
// delay_n = min(Cap, Base * Factor^n) * (1 +/- Jitter).
type RetryPolicy struct {
	MaxAttempts int
	Base        time.Duration
	Factor      float64
	Cap         time.Duration
	Jitter      float64 // fraction in [0, 1)
	Deadline    time.Duration // 0 means no overall deadline
}

// DefaultRetryPolicy is a moderate 3-attempt exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Base:        200 * time.Millisecond,
		Factor:      2.0,
		Cap:         5 * time.Second,
		Jitter:      0.2,
	}
}

// delay computes the n-th retry delay (n is 0-indexed: the delay
// before the second attempt).
func (p RetryPolicy) delay(n int) time.Duration {
	raw := float64(p.Base) * math.Pow(p.Factor, float64(n))
	if cap := float64(p.Cap); p.Cap > 0 && raw > cap {
		raw = cap
	}
	if p.Jitter > 0 {
		spread := raw * p.Jitter
		raw += (rand.Float64()*2 - 1) * spread
		if raw < 0 {
			raw = 0
		}
	}
	return time.Duration(raw)
}

// Do runs fn, retrying while mofaerr.IsTransient(err) is true and
// attempts remain, honoring ctx cancellation and the policy's overall
// deadline. It returns the last error if all attempts are exhausted.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	var deadlineAt time.Time
	if p.Deadline > 0 {
		deadlineAt = time.Now().Add(p.Deadline)
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !mofaerr.IsTransient(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts-1 {
			break
		}
		d := p.delay(attempt)
		if !deadlineAt.IsZero() && time.Now().Add(d).After(deadlineAt) {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
	return lastErr
}
