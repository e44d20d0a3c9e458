package workflow

import "github.com/mofa-run/mofa/pkg/ids"

// Command is returned by a node: the state updates it wants applied
// and, optionally, an explicit control-flow directive overriding the
// graph's static edges.
type Command struct {
	// Updates maps state keys to new values; each is merged through
	// that key's registered Reducer.
	Updates map[string]any

	// Goto, if non-empty, selects which route/target this node chose
	// (the condition name for a conditional edge's Routes, or a plain
	// node ID for a single edge to override the static target).
	Goto string

	// End, if true, terminates execution after this node regardless of
	// its edges.
	End bool
}

// NewCommand returns an empty Command ready for chaining.
func NewCommand() Command {
	return Command{Updates: make(map[string]any)}
}

// Update sets a single key in the command's update set and returns the
// command for chaining.
func (c Command) Update(key string, value any) Command {
	if c.Updates == nil {
		c.Updates = make(map[string]any)
	}
	c.Updates[key] = value
	return c
}

// WithGoto sets the explicit routing directive.
func (c Command) WithGoto(target string) Command {
	c.Goto = target
	return c
}

// WithEnd marks the command as terminating execution.
func (c Command) WithEnd() Command {
	c.End = true
	return c
}

// RuntimeContext carries per-invocation metadata and the recursion
// budget.
type RuntimeContext struct {
	ExecutionID    ids.ExecutionID
	SessionID      *ids.SessionID
	RemainingSteps int
	// Values is free-form metadata a caller may thread through nodes
	// (config, deadlines, cancellation reasons), analogous to the
	// original implementation's generic V payload.
	Values map[string]any
}

// NewRuntimeContext creates a context with the given recursion budget.
func NewRuntimeContext(recursionLimit int) *RuntimeContext {
	return &RuntimeContext{
		ExecutionID:    ids.NewExecutionID(),
		RemainingSteps: recursionLimit,
		Values:         make(map[string]any),
	}
}
