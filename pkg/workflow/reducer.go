package workflow

import "fmt"

// Reducer merges an incoming update into the current value of a state
// key. Reducers must be associative so that parallel fan-out merges
// are order-independent.
type Reducer interface {
	Reduce(current, update any) (any, error)
}

// ReducerFunc adapts a plain function to the Reducer interface.
type ReducerFunc func(current, update any) (any, error)

func (f ReducerFunc) Reduce(current, update any) (any, error) { return f(current, update) }

// OverwriteReducer replaces the current value with the update. It is
// the default reducer for any key without an explicit registration.
type OverwriteReducer struct{}

func (OverwriteReducer) Reduce(_, update any) (any, error) { return update, nil }

// AppendReducer treats the state value as a []any and appends update
// (or every element of update, if update is itself a slice).
type AppendReducer struct{}

func (AppendReducer) Reduce(current, update any) (any, error) {
	var out []any
	if current != nil {
		existing, ok := current.([]any)
		if !ok {
			return nil, fmt.Errorf("append reducer: current value is %T, not []any", current)
		}
		out = append(out, existing...)
	}
	if items, ok := update.([]any); ok {
		out = append(out, items...)
	} else {
		out = append(out, update)
	}
	return out, nil
}

// MergeReducer treats both values as map[string]any and shallow-merges
// update over current.
type MergeReducer struct{}

func (MergeReducer) Reduce(current, update any) (any, error) {
	out := make(map[string]any)
	if current != nil {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("merge reducer: current value is %T, not map[string]any", current)
		}
		for k, v := range m {
			out[k] = v
		}
	}
	if update != nil {
		m, ok := update.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("merge reducer: update value is %T, not map[string]any", update)
		}
		for k, v := range m {
			out[k] = v
		}
	}
	return out, nil
}

// MaxReducer keeps the larger of two float64-comparable numeric
// values.
type MaxReducer struct{}

func (MaxReducer) Reduce(current, update any) (any, error) {
	c, u, err := asFloat64Pair(current, update)
	if err != nil {
		return nil, fmt.Errorf("max reducer: %w", err)
	}
	if c == nil {
		return u, nil
	}
	if *c >= *u {
		return current, nil
	}
	return update, nil
}

// MinReducer keeps the smaller of two float64-comparable numeric
// values.
type MinReducer struct{}

func (MinReducer) Reduce(current, update any) (any, error) {
	c, u, err := asFloat64Pair(current, update)
	if err != nil {
		return nil, fmt.Errorf("min reducer: %w", err)
	}
	if c == nil {
		return u, nil
	}
	if *c <= *u {
		return current, nil
	}
	return update, nil
}

// SumReducer accumulates numeric values.
type SumReducer struct{}

func (SumReducer) Reduce(current, update any) (any, error) {
	c, u, err := asFloat64Pair(current, update)
	if err != nil {
		return nil, fmt.Errorf("sum reducer: %w", err)
	}
	base := 0.0
	if c != nil {
		base = *c
	}
	return base + *u, nil
}

func asFloat64Pair(current, update any) (*float64, *float64, error) {
	u, err := toFloat64(update)
	if err != nil {
		return nil, nil, err
	}
	if current == nil {
		return nil, &u, nil
	}
	c, err := toFloat64(current)
	if err != nil {
		return nil, nil, err
	}
	return &c, &u, nil
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}
