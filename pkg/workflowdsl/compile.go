package workflowdsl

import (
	"context"
	"fmt"

	"github.com/mofa-run/mofa/pkg/workflow"
)

// AgentInvoker runs the node's referenced agent against state and
// returns a Command, letting Compile stay independent of any concrete
// agent implementation (mirroring the original's agent_registry
// parameter to build_with_agents).
type AgentInvoker interface {
	InvokeAgent(ctx context.Context, agentRef AgentRef, state workflow.State) (workflow.Command, error)
}

// Compile translates a parsed, validated Document into a
// pkg/workflow.Builder, following WorkflowDslParser::add_node's
// node-kind dispatch. agents may be nil only if the document has no
// llm_agent nodes; Compile returns an error otherwise.
func Compile(doc *Document, agents AgentInvoker) (*workflow.Builder, error) {
	if err := Validate(doc.Metadata.ID, doc); err != nil {
		return nil, err
	}

	builder := workflow.NewBuilder(doc.Metadata.ID)

	idToGraphID := make(map[string]string, len(doc.Nodes))
	var startID, endID string
	for _, n := range doc.Nodes {
		switch n.Kind {
		case NodeStart:
			startID = n.ID
			idToGraphID[n.ID] = workflow.START
			continue
		case NodeEnd:
			endID = n.ID
			idToGraphID[n.ID] = workflow.END
			continue
		}
		idToGraphID[n.ID] = n.ID
	}

	for _, n := range doc.Nodes {
		fn, err := compileNode(n, agents)
		if err != nil {
			return nil, err
		}
		if fn == nil {
			continue // start/end nodes have no executor; they are graph sentinels
		}
		builder.AddNode(n.ID, fn)
	}

	if err := addEdges(builder, doc, idToGraphID); err != nil {
		return nil, err
	}
	_ = startID
	_ = endID
	return builder, nil
}

func compileNode(n NodeDef, agents AgentInvoker) (workflow.NodeFunc, error) {
	switch n.Kind {
	case NodeStart, NodeEnd:
		return nil, nil
	case NodeTask:
		return passthroughNode(), nil
	case NodeLLMAgent:
		if n.Agent == nil {
			return nil, &ParseError{Path: fmt.Sprintf("nodes[%s].agent", n.ID), Message: "llm_agent node requires an \"agent\" reference"}
		}
		if agents == nil {
			return nil, &ParseError{Path: fmt.Sprintf("nodes[%s]", n.ID), Message: "document has llm_agent nodes but no AgentInvoker was supplied to Compile"}
		}
		ref := *n.Agent
		return func(ctx context.Context, state workflow.State, rtc *workflow.RuntimeContext) (workflow.Command, error) {
			return agents.InvokeAgent(ctx, ref, state)
		}, nil
	case NodeCondition:
		// Condition nodes carry no executable behavior of their own in
		// the original either (add_node's Condition arm always resolves
		// true); routing is driven entirely by the node's routes/default,
		// wired as a conditional edge in addEdges.
		return func(context.Context, workflow.State, *workflow.RuntimeContext) (workflow.Command, error) {
			return workflow.NewCommand().WithGoto("true"), nil
		}, nil
	case NodeParallel:
		return passthroughNode(), nil
	case NodeJoin:
		return passthroughNode(), nil
	case NodeLoop:
		return passthroughNode(), nil
	case NodeTransform:
		return func(ctx context.Context, state workflow.State, rtc *workflow.RuntimeContext) (workflow.Command, error) {
			v, _ := state.Get("input")
			return workflow.NewCommand().Update("output", v), nil
		}, nil
	case NodeSubWorkflow:
		return passthroughNode(), nil
	case NodeWait:
		return passthroughNode(), nil
	default:
		return nil, &ParseError{Path: fmt.Sprintf("nodes[%s].kind", n.ID), Message: fmt.Sprintf("unknown node kind %q", n.Kind)}
	}
}

func passthroughNode() workflow.NodeFunc {
	return func(ctx context.Context, state workflow.State, rtc *workflow.RuntimeContext) (workflow.Command, error) {
		return workflow.Command{}, nil
	}
}

// addEdges groups the document's edges and per-node routing fields
// (Routes/Default for condition nodes, Targets for parallel nodes)
// into Builder calls. Plain edges with no condition and a single
// target per "from" become AddEdge; multiple unconditioned edges from
// the same "from" become AddParallelEdges; edges carrying a Condition
// are merged into a single AddConditionalEdges call per "from".
func addEdges(builder *workflow.Builder, doc *Document, idToGraphID map[string]string) error {
	byID := make(map[string]NodeDef, len(doc.Nodes))
	for _, n := range doc.Nodes {
		byID[n.ID] = n
	}

	for _, n := range doc.Nodes {
		from := idToGraphID[n.ID]
		switch {
		case len(n.Routes) > 0:
			routes := make(map[string]string, len(n.Routes))
			for route, target := range n.Routes {
				routes[route] = idToGraphID[target]
			}
			def := ""
			if n.Default != "" {
				def = idToGraphID[n.Default]
			}
			builder.AddConditionalEdges(from, routes, def)
		case len(n.Targets) > 0:
			targets := make([]string, len(n.Targets))
			for i, t := range n.Targets {
				targets[i] = idToGraphID[t]
			}
			builder.AddParallelEdges(from, targets)
		}
	}

	grouped := make(map[string][]EdgeDef)
	var order []string
	for _, e := range doc.Edges {
		if _, handled := byID[e.From]; handled {
			if n := byID[e.From]; len(n.Routes) > 0 || len(n.Targets) > 0 {
				continue // already wired from the node's own routes/targets fields
			}
		}
		if _, ok := grouped[e.From]; !ok {
			order = append(order, e.From)
		}
		grouped[e.From] = append(grouped[e.From], e)
	}

	for _, from := range order {
		edges := grouped[from]
		graphFrom := idToGraphID[from]
		hasCondition := false
		for _, e := range edges {
			if e.Condition != "" {
				hasCondition = true
				break
			}
		}
		switch {
		case hasCondition:
			routes := make(map[string]string, len(edges))
			def := ""
			for _, e := range edges {
				target := idToGraphID[e.To]
				if e.Condition == "" {
					def = target
					continue
				}
				routes[e.Condition] = target
			}
			builder.AddConditionalEdges(graphFrom, routes, def)
		case len(edges) > 1:
			targets := make([]string, len(edges))
			for i, e := range edges {
				targets[i] = idToGraphID[e.To]
			}
			builder.AddParallelEdges(graphFrom, targets)
		default:
			builder.AddEdge(graphFrom, idToGraphID[edges[0].To])
		}
	}

	return nil
}
