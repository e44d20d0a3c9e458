package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthrough(nodeID string) NodeFunc {
	return func(ctx context.Context, state State, rtc *RuntimeContext) (Command, error) {
		return NewCommand().Update(nodeID, true), nil
	}
}

func simpleLinearGraph() *Builder {
	b := NewBuilder("linear")
	b.AddNode("a", passthrough("a"))
	b.AddNode("b", passthrough("b"))
	b.SetEntryPoint("a")
	b.AddEdge("a", "b")
	b.SetFinishPoint("b")
	return b
}

func TestCompileSucceedsOnValidGraph(t *testing.T) {
	c, err := simpleLinearGraph().Compile()
	require.NoError(t, err)
	assert.Equal(t, "linear", c.ID())
}

func TestCompileRejectsUnknownEdgeTarget(t *testing.T) {
	b := NewBuilder("bad")
	b.AddNode("a", passthrough("a"))
	b.SetEntryPoint("a")
	b.AddEdge("a", "ghost")
	_, err := b.Compile()
	require.Error(t, err)
}

func TestCompileRequiresStartOutEdge(t *testing.T) {
	b := NewBuilder("bad")
	b.AddNode("a", passthrough("a"))
	b.AddEdge("a", END)
	_, err := b.Compile()
	require.Error(t, err)
}

func TestCompileRequiresEndInEdge(t *testing.T) {
	b := NewBuilder("bad")
	b.AddNode("a", passthrough("a"))
	b.SetEntryPoint("a")
	_, err := b.Compile()
	require.Error(t, err)
}

func TestCompileRequiresConditionalDefault(t *testing.T) {
	b := NewBuilder("bad")
	b.AddNode("classify", passthrough("classify"))
	b.AddNode("a", passthrough("a"))
	b.SetEntryPoint("classify")
	b.AddConditionalEdges("classify", map[string]string{"x": "a"}, "")
	b.SetFinishPoint("a")
	_, err := b.Compile()
	require.Error(t, err, "conditional edge without a default must fail compile")
}

func TestCompileRejectsDuplicateParallelTargets(t *testing.T) {
	b := NewBuilder("bad")
	b.AddNode("fan", passthrough("fan"))
	b.AddNode("a", passthrough("a"))
	b.SetEntryPoint("fan")
	b.AddParallelEdges("fan", []string{"a", "a"})
	b.SetFinishPoint("a")
	_, err := b.Compile()
	require.Error(t, err)
}

func TestCompileRequiresPathFromStartToEnd(t *testing.T) {
	b := NewBuilder("bad")
	b.AddNode("a", passthrough("a"))
	b.AddNode("b", passthrough("b"))
	b.SetEntryPoint("a")
	b.SetFinishPoint("b") // b has no in-edge from a; a has no out-edge to END or b
	_, err := b.Compile()
	require.Error(t, err)
}

func TestInvokeRunsLinearGraphToCompletion(t *testing.T) {
	c, err := simpleLinearGraph().Compile()
	require.NoError(t, err)
	final, err := c.Invoke(context.Background(), State{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, true, final["a"])
	assert.Equal(t, true, final["b"])
}

func TestConditionalEdgeNoMatchFallsThroughToDefault(t *testing.T) {
	// Open Question decision: a conditional edge with no matching
	// branch AND no default is a validation error, not an implicit END.
	// Compile already rejects a conditional edge without a default
	// (TestCompileRequiresConditionalDefault), so at runtime a Goto not
	// found in Routes falls through to Default, which this test checks.
	b := NewBuilder("cond")
	b.AddNode("classify", func(ctx context.Context, state State, rtc *RuntimeContext) (Command, error) {
		return NewCommand().WithGoto("unknown_route"), nil
	})
	b.AddNode("a", passthrough("a"))
	b.SetEntryPoint("classify")
	b.AddConditionalEdges("classify", map[string]string{"known": "a"}, "a")
	b.SetFinishPoint("a")
	c, err := b.Compile()
	require.NoError(t, err)

	final, err := c.Invoke(context.Background(), State{}, nil, nil)
	require.NoError(t, err, "falls through to the declared default branch")
	assert.Equal(t, true, final["a"])
}

func TestRecursionLimitTerminatesWithTimeout(t *testing.T) {
	// Property 5 / scenario S4: workflow recursion bound.
	b := NewBuilder("loop")
	b.AddNode("spin", func(ctx context.Context, state State, rtc *RuntimeContext) (Command, error) {
		return NewCommand().WithGoto("spin"), nil
	})
	b.AddNode("done", passthrough("done"))
	b.SetEntryPoint("spin")
	b.AddEdge("spin", "done") // static edge only; spin's Goto always overrides it
	b.SetFinishPoint("done")

	b.WithConfig(GraphConfig{MaxSteps: 3})
	c, err := b.Compile()
	require.NoError(t, err)

	_, err = c.Invoke(context.Background(), State{}, nil, nil)
	require.Error(t, err)
}

func TestParallelFanOutMergesDeterministically(t *testing.T) {
	// Property 7: reducer purity/associativity — merge order is the
	// declared target order regardless of goroutine completion order.
	b := NewBuilder("fanout")
	b.AddNode("fan", passthrough("fan"))
	b.AddNode("left", func(ctx context.Context, state State, rtc *RuntimeContext) (Command, error) {
		return NewCommand().Update("log", []any{"left"}), nil
	})
	b.AddNode("right", func(ctx context.Context, state State, rtc *RuntimeContext) (Command, error) {
		return NewCommand().Update("log", []any{"right"}), nil
	})
	b.AddReducer("log", AppendReducer{})
	b.SetEntryPoint("fan")
	b.AddParallelEdges("fan", []string{"left", "right"})
	c, err := b.Compile()
	require.NoError(t, err)

	final, err := c.Invoke(context.Background(), State{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"left", "right"}, final["log"])
}
