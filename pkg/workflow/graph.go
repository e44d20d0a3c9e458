// Package workflow implements the workflow graph engine (C7): a typed,
// reducer-driven state graph inspired by LangGraph's StateGraph API
//, with streaming execution, parallel fan-out, and
// deterministic trace/replay.
package workflow

import (
	"context"
)

// START and END are the graph's reserved entry and exit node IDs.
const (
	START = "__START__"
	END   = "__END__"
)

// State is the graph's working state: a JSON-shaped map. Reducers
// operate on individual keys; the zero value is an empty state.
type State map[string]any

// Clone returns a shallow copy of s, sufficient for the top-level
// per-key reducer model (nested values are not deep-copied, matching
// JsonState's semantics of replacing a key's value wholesale).
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Get returns the value at key and whether it was present.
func (s State) Get(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

// Keys returns the state's keys in no particular order.
func (s State) Keys() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}

// NodeFunc is the behavior of a graph node: given the current state
// and runtime context, produce a Command describing state updates and
// control flow.
type NodeFunc func(ctx context.Context, state State, rtc *RuntimeContext) (Command, error)

// Node pairs a NodeFunc with identity for error reporting and tracing.
type Node struct {
	ID          string
	Fn          NodeFunc
	Description string
}

// EdgeKind tags the shape of an Edge's targets.
type EdgeKind int

const (
	EdgeSingle EdgeKind = iota
	EdgeConditional
	EdgeParallel
)

// Edge is one outgoing routing rule from a node.
type Edge struct {
	Kind EdgeKind

	// Target is used for EdgeSingle.
	Target string

	// Routes maps a condition name (the string a node's Command.Goto
	// resolves to) to a target node ID, used for EdgeConditional.
	Routes map[string]string
	// Default is the fallback target for EdgeConditional when no route
	// in Routes matches; empty means no default (see Open Question
	// decision in the design notes: no match + no default is an
	// error, not an implicit END).
	Default string

	// ParallelTargets lists the parallel fan-out destinations for
	// EdgeParallel.
	ParallelTargets []string
}

// AllTargets returns every node ID this edge might route to.
func (e Edge) AllTargets() []string {
	switch e.Kind {
	case EdgeSingle:
		return []string{e.Target}
	case EdgeConditional:
		out := make([]string, 0, len(e.Routes)+1)
		for _, t := range e.Routes {
			out = append(out, t)
		}
		if e.Default != "" {
			out = append(out, e.Default)
		}
		return out
	case EdgeParallel:
		// A parallel edge's children are ordinary nodes, but the engine
		// always rejoins at END once every child completes (there is no
		// separate "join" edge in this model), so END counts as a
		// validation target too.
		return append(append([]string{}, e.ParallelTargets...), END)
	}
	return nil
}
