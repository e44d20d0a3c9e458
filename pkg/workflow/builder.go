package workflow

import (
	"fmt"
	"sort"

	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// Builder accumulates nodes, edges, and reducers for a graph, in the
// style of the original implementation's StateGraph builder.
type Builder struct {
	id       string
	nodes    map[string]Node
	edges    map[string]Edge
	fallback map[string]string // from node -> fallback target, on permanent node failure
	reducers map[string]Reducer
	config   GraphConfig
}

// NewBuilder creates an empty graph builder identified by id.
func NewBuilder(id string) *Builder {
	return &Builder{
		id:       id,
		nodes:    make(map[string]Node),
		edges:    make(map[string]Edge),
		fallback: make(map[string]string),
		reducers: make(map[string]Reducer),
		config:   DefaultGraphConfig(),
	}
}

// AddNode registers a node. Re-adding the same ID replaces it.
func (b *Builder) AddNode(nodeID string, fn NodeFunc) *Builder {
	b.nodes[nodeID] = Node{ID: nodeID, Fn: fn}
	return b
}

// AddNodeWithDescription registers a node with a human description.
func (b *Builder) AddNodeWithDescription(nodeID, description string, fn NodeFunc) *Builder {
	b.nodes[nodeID] = Node{ID: nodeID, Fn: fn, Description: description}
	return b
}

// AddEdge adds a plain edge from -> to. from may be START, to may be
// END.
func (b *Builder) AddEdge(from, to string) *Builder {
	b.edges[from] = Edge{Kind: EdgeSingle, Target: to}
	return b
}

// AddConditionalEdges adds a conditional edge from a node: the node's
// returned Command.Goto selects a route name, which maps to a target
// node ID. defaultTarget, if non-empty, is used when Goto doesn't
// match any route.
func (b *Builder) AddConditionalEdges(from string, routes map[string]string, defaultTarget string) *Builder {
	b.edges[from] = Edge{Kind: EdgeConditional, Routes: routes, Default: defaultTarget}
	return b
}

// AddParallelEdges fans out from a node to every target concurrently.
func (b *Builder) AddParallelEdges(from string, targets []string) *Builder {
	b.edges[from] = Edge{Kind: EdgeParallel, ParallelTargets: targets}
	return b
}

// AddFallbackEdge declares where control transfers if from's node
// fails permanently.
func (b *Builder) AddFallbackEdge(from, to string) *Builder {
	b.fallback[from] = to
	return b
}

// SetEntryPoint is sugar for AddEdge(START, node).
func (b *Builder) SetEntryPoint(node string) *Builder {
	return b.AddEdge(START, node)
}

// SetFinishPoint is sugar for AddEdge(node, END).
func (b *Builder) SetFinishPoint(node string) *Builder {
	return b.AddEdge(node, END)
}

// AddReducer registers the reducer used to merge updates to key. Keys
// without an explicit reducer default to OverwriteReducer.
func (b *Builder) AddReducer(key string, reducer Reducer) *Builder {
	b.reducers[key] = reducer
	return b
}

// WithConfig replaces the graph's GraphConfig.
func (b *Builder) WithConfig(cfg GraphConfig) *Builder {
	b.config = cfg
	return b
}

// ID returns the graph's identifier.
func (b *Builder) ID() string { return b.id }

// Compile validates the graph and produces an executable Compiled
// graph.
func (b *Builder) Compile() (*Compiled, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	nodes := make(map[string]Node, len(b.nodes))
	for k, v := range b.nodes {
		nodes[k] = v
	}
	edges := make(map[string]Edge, len(b.edges))
	for k, v := range b.edges {
		edges[k] = v
	}
	fallback := make(map[string]string, len(b.fallback))
	for k, v := range b.fallback {
		fallback[k] = v
	}
	reducers := make(map[string]Reducer, len(b.reducers))
	for k, v := range b.reducers {
		reducers[k] = v
	}
	return &Compiled{
		id:       b.id,
		nodes:    nodes,
		edges:    edges,
		fallback: fallback,
		reducers: reducers,
		config:   b.config,
	}, nil
}

func (b *Builder) validate() error {
	isKnown := func(id string) bool {
		if id == START || id == END {
			return true
		}
		_, ok := b.nodes[id]
		return ok
	}

	for from, edge := range b.edges {
		if !isKnown(from) {
			return mofaerr.New(mofaerr.ValidationFailed, fmt.Sprintf("edge source %q is not a declared node", from))
		}
		for _, t := range edge.AllTargets() {
			if !isKnown(t) {
				return mofaerr.New(mofaerr.ValidationFailed, fmt.Sprintf("edge target %q (from %q) is not a declared node", t, from))
			}
		}
		if edge.Kind == EdgeConditional && edge.Default == "" {
			return mofaerr.New(mofaerr.ValidationFailed, fmt.Sprintf("conditional edge from %q has no default branch", from))
		}
		if edge.Kind == EdgeParallel {
			seen := make(map[string]struct{}, len(edge.ParallelTargets))
			for _, t := range edge.ParallelTargets {
				if _, dup := seen[t]; dup {
					return mofaerr.New(mofaerr.ValidationFailed, fmt.Sprintf("parallel edge from %q has duplicate target %q", from, t))
				}
				seen[t] = struct{}{}
			}
		}
	}
	for from, to := range b.fallback {
		if !isKnown(from) || !isKnown(to) {
			return mofaerr.New(mofaerr.ValidationFailed, fmt.Sprintf("fallback edge %q -> %q references an unknown node", from, to))
		}
	}

	if _, ok := b.edges[START]; !ok {
		return mofaerr.New(mofaerr.ValidationFailed, "__START__ has no out-edges")
	}
	if !b.hasInEdgeTo(END) {
		return mofaerr.New(mofaerr.ValidationFailed, "__END__ has no in-edges")
	}
	if !b.hasPath(START, END) {
		return mofaerr.New(mofaerr.ValidationFailed, "no path from __START__ to __END__")
	}
	return nil
}

func (b *Builder) hasInEdgeTo(target string) bool {
	for _, edge := range b.edges {
		for _, t := range edge.AllTargets() {
			if t == target {
				return true
			}
		}
	}
	return false
}

func (b *Builder) hasPath(from, to string) bool {
	visited := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		var targets []string
		if edge, ok := b.edges[n]; ok {
			targets = append(targets, edge.AllTargets()...)
		}
		if fb, ok := b.fallback[n]; ok {
			targets = append(targets, fb)
		}
		sort.Strings(targets) // deterministic traversal order
		for _, t := range targets {
			if !visited[t] {
				visited[t] = true
				stack = append(stack, t)
			}
		}
	}
	return false
}
