// Package workflowdsl parses the workflow document format (YAML or
// JSON, with ${VAR}/$VAR environment-variable substitution) and
// compiles it into a pkg/workflow.Builder. Grounded
// on original_source/crates/mofa-foundation/src/workflow/dsl/parser.rs
// (WorkflowDslParser: from_yaml/from_file, WorkflowDefinition validation
// — start/end node presence, edge reference checks, agent reference
// checks — translated here to pkg/workflow's START/END/Builder model).
package workflowdsl

// NodeKind enumerates the supported node kinds.
type NodeKind string

const (
	NodeStart       NodeKind = "start"
	NodeEnd         NodeKind = "end"
	NodeTask        NodeKind = "task"
	NodeLLMAgent    NodeKind = "llm_agent"
	NodeCondition   NodeKind = "condition"
	NodeParallel    NodeKind = "parallel"
	NodeJoin        NodeKind = "join"
	NodeLoop        NodeKind = "loop"
	NodeTransform   NodeKind = "transform"
	NodeSubWorkflow NodeKind = "sub_workflow"
	NodeWait        NodeKind = "wait"
)

// Metadata is the document's identity block.
type Metadata struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// AgentRef is either an inline agent config or a reference into the
// document's agents section.
type AgentRef struct {
	RegistryRef string         `yaml:"registry_ref,omitempty" json:"registry_ref,omitempty"`
	Inline      map[string]any `yaml:"inline,omitempty" json:"inline,omitempty"`
}

// NodeDef is one entry in the document's nodes list.
type NodeDef struct {
	ID          string         `yaml:"id" json:"id"`
	Kind        NodeKind       `yaml:"kind" json:"kind"`
	Agent       *AgentRef      `yaml:"agent,omitempty" json:"agent,omitempty"`
	Routes      map[string]string `yaml:"routes,omitempty" json:"routes,omitempty"`
	Default     string         `yaml:"default,omitempty" json:"default,omitempty"`
	Targets     []string       `yaml:"targets,omitempty" json:"targets,omitempty"`
	SubWorkflow string         `yaml:"sub_workflow,omitempty" json:"sub_workflow,omitempty"`
	Config      map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
}

// EdgeDef is one entry in the document's edges list. Condition, when
// set, names the route label a conditional node's Command.Goto must
// match to take this edge. Among the edges leaving one node, once any
// of them carries a Condition, an edge with an empty Condition is the
// default branch. Edges leaving a node that declares Routes or Targets
// are ignored; that node's own fields define its out-edges.
type EdgeDef struct {
	From      string `yaml:"from" json:"from"`
	To        string `yaml:"to" json:"to"`
	Condition string `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// Document is the top-level parsed shape.
type Document struct {
	Metadata Metadata          `yaml:"metadata" json:"metadata"`
	Agents   map[string]any    `yaml:"agents,omitempty" json:"agents,omitempty"`
	Nodes    []NodeDef         `yaml:"nodes" json:"nodes"`
	Edges    []EdgeDef         `yaml:"edges" json:"edges"`
}
