package workflowdsl

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mofa-run/mofa/pkg/workflow"
)

const sampleYAML = `
metadata:
  id: greet
  name: Greeting Workflow
  description: says hello then stops
agents:
  greeter:
    provider: ${TEST_PROVIDER}
nodes:
  - id: begin
    kind: start
  - id: say_hello
    kind: llm_agent
    agent:
      registry_ref: greeter
  - id: finish
    kind: end
edges:
  - from: begin
    to: say_hello
  - from: say_hello
    to: finish
`

func TestParseYAMLSubstitutesEnvAndDecodes(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "anthropic")
	doc, err := ParseYAML("greet.yaml", []byte(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "greet", doc.Metadata.ID)
	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, NodeLLMAgent, doc.Nodes[1].Kind)

	agentCfg, ok := doc.Agents["greeter"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "anthropic", agentCfg["provider"])
}

func TestParseYAMLLeavesUnsetVarLiteral(t *testing.T) {
	os.Unsetenv("TEST_PROVIDER_UNSET")
	doc, err := ParseYAML("greet.yaml", []byte(`
metadata: {id: x, name: x, description: x}
agents:
  greeter: {provider: $TEST_PROVIDER_UNSET}
nodes: [{id: begin, kind: start}, {id: finish, kind: end}]
edges: [{from: begin, to: finish}]
`))
	require.NoError(t, err)
	agentCfg := doc.Agents["greeter"].(map[string]any)
	assert.Equal(t, "$TEST_PROVIDER_UNSET", agentCfg["provider"])
}

func TestParseJSONStripsComments(t *testing.T) {
	src := []byte(`{
  // top-level comment
  "metadata": {"id": "x", "name": "x", "description": "x"},
  "nodes": [
    {"id": "begin", "kind": "start"},
    {"id": "finish", "kind": "end"} /* trailing */
  ],
  "edges": [{"from": "begin", "to": "finish"}]
}`)
	doc, err := ParseJSON("x.json", src)
	require.NoError(t, err)
	assert.Equal(t, "x", doc.Metadata.ID)
	assert.Len(t, doc.Nodes, 2)
}

func TestParseFileDispatchesByExtension(t *testing.T) {
	_, err := ParseFile("workflow.txt", []byte("{}"))
	assert.Error(t, err)

	doc, err := ParseFile("workflow.yaml", []byte("metadata: {id: a, name: a, description: a}\nnodes: [{id: s, kind: start}, {id: e, kind: end}]\nedges: [{from: s, to: e}]\n"))
	require.NoError(t, err)
	assert.Equal(t, "a", doc.Metadata.ID)
}

func TestValidateRejectsMissingStartNode(t *testing.T) {
	doc := &Document{
		Metadata: Metadata{ID: "x"},
		Nodes:    []NodeDef{{ID: "finish", Kind: NodeEnd}},
	}
	err := Validate("x.yaml", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start node")
}

func TestValidateRejectsUnknownEdgeTarget(t *testing.T) {
	doc := &Document{
		Metadata: Metadata{ID: "x"},
		Nodes:    []NodeDef{{ID: "begin", Kind: NodeStart}, {ID: "finish", Kind: NodeEnd}},
		Edges:    []EdgeDef{{From: "begin", To: "ghost"}},
	}
	err := Validate("x.yaml", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node")
}

func TestValidateRejectsUnresolvedAgentReference(t *testing.T) {
	doc := &Document{
		Metadata: Metadata{ID: "x"},
		Agents:   map[string]any{},
		Nodes: []NodeDef{
			{ID: "begin", Kind: NodeStart},
			{ID: "call", Kind: NodeLLMAgent, Agent: &AgentRef{RegistryRef: "missing"}},
			{ID: "finish", Kind: NodeEnd},
		},
		Edges: []EdgeDef{{From: "begin", To: "call"}, {From: "call", To: "finish"}},
	}
	err := Validate("x.yaml", doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not declared")
}

type stubAgentInvoker struct{ calls int }

func (s *stubAgentInvoker) InvokeAgent(ctx context.Context, ref AgentRef, state workflow.State) (workflow.Command, error) {
	s.calls++
	return workflow.NewCommand().Update("greeted", true), nil
}

func TestCompileProducesRunnableGraph(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "anthropic")
	doc, err := ParseYAML("greet.yaml", []byte(sampleYAML))
	require.NoError(t, err)

	invoker := &stubAgentInvoker{}
	builder, err := Compile(doc, invoker)
	require.NoError(t, err)

	compiled, err := builder.Compile()
	require.NoError(t, err)

	out, err := compiled.Invoke(context.Background(), workflow.State{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, invoker.calls)
	assert.Equal(t, true, out["greeted"])
}

func TestCompileRejectsLLMAgentNodeWithoutInvoker(t *testing.T) {
	t.Setenv("TEST_PROVIDER", "anthropic")
	doc, err := ParseYAML("greet.yaml", []byte(sampleYAML))
	require.NoError(t, err)

	_, err = Compile(doc, nil)
	require.Error(t, err)
}

func TestCompileWiresParallelFanOutFromTargets(t *testing.T) {
	doc := &Document{
		Metadata: Metadata{ID: "fanout"},
		Nodes: []NodeDef{
			{ID: "begin", Kind: NodeStart},
			{ID: "split", Kind: NodeParallel, Targets: []string{"a", "b"}},
			{ID: "a", Kind: NodeTask},
			{ID: "b", Kind: NodeTask},
			{ID: "finish", Kind: NodeEnd},
		},
		Edges: []EdgeDef{
			{From: "begin", To: "split"},
		},
	}
	builder, err := Compile(doc, nil)
	require.NoError(t, err)
	_, err = builder.Compile()
	require.NoError(t, err)
}
