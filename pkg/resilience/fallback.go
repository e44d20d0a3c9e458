package resilience

import "context"

// FallbackKind tags a fallback strategy variant.
type FallbackKind string

const (
	FallbackReturnError           FallbackKind = "return_error"
	FallbackReturnCachedResponse  FallbackKind = "return_cached_response"
	FallbackReturnDefaultValue    FallbackKind = "return_default_value"
	FallbackCallAlternativeService FallbackKind = "call_alternative_service"
	FallbackQueueForRetry         FallbackKind = "queue_for_retry"
)

// Fallback is one strategy in a chain. Its apply method is invoked with the
// triggering error and should return the recovered value (as any) or
// a fresh error if this strategy also fails.
type Fallback struct {
	Kind FallbackKind

	// Message is used by FallbackReturnError.
	Message string
	// Value is used by FallbackReturnDefaultValue.
	Value any
	// CachedFn is used by FallbackReturnCachedResponse.
	CachedFn func(ctx context.Context) (any, bool)
	// AlternativeName names the service for FallbackCallAlternativeService.
	AlternativeName string
	// AlternativeFn is invoked for FallbackCallAlternativeService.
	AlternativeFn func(ctx context.Context) (any, error)
	// QueueFn is invoked for FallbackQueueForRetry; it should enqueue
	// the failed call for a later attempt and returns no value.
	QueueFn func(ctx context.Context) error
}

// Chain tries Fallbacks in declared order until one succeeds.
type Chain struct {
	Strategies []Fallback
}

// Apply runs the chain for the given triggering error, returning the
// first strategy's successful value, or the last error if every
// strategy in the chain fails.
func (c Chain) Apply(ctx context.Context, cause error) (any, error) {
	var lastErr error = cause
	for _, fb := range c.Strategies {
		v, ok, err := fb.apply(ctx, lastErr)
		if ok {
			return v, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	return nil, lastErr
}

func (fb Fallback) apply(ctx context.Context, cause error) (any, bool, error) {
	switch fb.Kind {
	case FallbackReturnError:
		return nil, false, errFallback{msg: fb.Message, cause: cause}
	case FallbackReturnCachedResponse:
		if fb.CachedFn == nil {
			return nil, false, nil
		}
		v, ok := fb.CachedFn(ctx)
		return v, ok, nil
	case FallbackReturnDefaultValue:
		return fb.Value, true, nil
	case FallbackCallAlternativeService:
		if fb.AlternativeFn == nil {
			return nil, false, nil
		}
		v, err := fb.AlternativeFn(ctx)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	case FallbackQueueForRetry:
		if fb.QueueFn == nil {
			return nil, false, nil
		}
		if err := fb.QueueFn(ctx); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}
	return nil, false, nil
}

type errFallback struct {
	msg   string
	cause error
}

func (e errFallback) Error() string { return e.msg }
func (e errFallback) Unwrap() error { return e.cause }
