package resilience

import (
	"errors"

	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// ErrCircuitOpen is returned by Execute/ExecuteWithResult when the
// breaker is Open or its half-open probe budget is exhausted.
var ErrCircuitOpen = mofaerr.New(mofaerr.ResourceUnavailable, "circuit breaker open")

// Execute runs fn under cb's guard, recording success or failure based
// on the returned error; an error whose mofaerr kind is Timeout is
// recorded as a timeout.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.Allow() {
		return ErrCircuitOpen
	}
	err := fn()
	if err == nil {
		cb.RecordSuccess()
		return nil
	}
	kind, _ := mofaerr.KindOf(err)
	cb.RecordFailure(kind == mofaerr.Timeout)
	return err
}

// ExecuteWithResult is the generic counterpart of Execute for calls
// that also produce a value.
func ExecuteWithResult[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T
	if !cb.Allow() {
		return zero, ErrCircuitOpen
	}
	v, err := fn()
	if err == nil {
		cb.RecordSuccess()
		return v, nil
	}
	kind, _ := mofaerr.KindOf(err)
	cb.RecordFailure(kind == mofaerr.Timeout)
	return zero, err
}

// IsCircuitOpenErr reports whether err is (or wraps) ErrCircuitOpen.
func IsCircuitOpenErr(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}
