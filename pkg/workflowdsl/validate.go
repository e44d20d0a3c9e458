package workflowdsl

import "fmt"

// Validate checks doc against the structural rules
// WorkflowDslParser::validate enforces in the original implementation:
// a start node and an end node must be present, every edge must
// reference a declared node, and every llm_agent node's registry
// reference must resolve within doc.Agents.
func Validate(file string, doc *Document) error {
	ids := make(map[string]NodeDef, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.ID == "" {
			return &ParseError{File: file, Path: "nodes", Message: "node missing required \"id\" field"}
		}
		if _, dup := ids[n.ID]; dup {
			return &ParseError{File: file, Path: fmt.Sprintf("nodes[%s]", n.ID), Message: "duplicate node id"}
		}
		ids[n.ID] = n
	}

	if !hasKind(doc.Nodes, NodeStart) {
		return &ParseError{File: file, Path: "nodes", Message: "workflow must have a start node"}
	}
	if !hasKind(doc.Nodes, NodeEnd) {
		return &ParseError{File: file, Path: "nodes", Message: "workflow must have an end node"}
	}

	for i, e := range doc.Edges {
		path := fmt.Sprintf("edges[%d]", i)
		if _, ok := ids[e.From]; !ok {
			return &ParseError{File: file, Path: path, Message: fmt.Sprintf("edge references unknown node %q as \"from\"", e.From)}
		}
		if _, ok := ids[e.To]; !ok {
			return &ParseError{File: file, Path: path, Message: fmt.Sprintf("edge references unknown node %q as \"to\"", e.To)}
		}
	}

	for _, n := range doc.Nodes {
		path := fmt.Sprintf("nodes[%s].routes", n.ID)
		for route, target := range n.Routes {
			if _, ok := ids[target]; !ok {
				return &ParseError{File: file, Path: path, Message: fmt.Sprintf("route %q targets unknown node %q", route, target)}
			}
		}
		if n.Default != "" {
			if _, ok := ids[n.Default]; !ok {
				return &ParseError{File: file, Path: fmt.Sprintf("nodes[%s].default", n.ID), Message: fmt.Sprintf("default route targets unknown node %q", n.Default)}
			}
		}
		for _, target := range n.Targets {
			if _, ok := ids[target]; !ok {
				return &ParseError{File: file, Path: fmt.Sprintf("nodes[%s].targets", n.ID), Message: fmt.Sprintf("parallel target %q is not a known node", target)}
			}
		}
	}

	for _, n := range doc.Nodes {
		if n.Kind != NodeLLMAgent || n.Agent == nil {
			continue
		}
		if n.Agent.RegistryRef == "" {
			continue // inline agent config is self-contained
		}
		if _, ok := doc.Agents[n.Agent.RegistryRef]; !ok {
			return &ParseError{File: file, Path: fmt.Sprintf("nodes[%s].agent.registry_ref", n.ID), Message: fmt.Sprintf("agent %q not declared in document's agents section", n.Agent.RegistryRef)}
		}
	}

	return nil
}

func hasKind(nodes []NodeDef, kind NodeKind) bool {
	for _, n := range nodes {
		if n.Kind == kind {
			return true
		}
	}
	return false
}
