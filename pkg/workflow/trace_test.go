package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterministicAcrossMapOrder(t *testing.T) {
	t1 := NewTrace("wf")
	o := t1.StartNode("a", State{})
	t1.CompleteNode(o, State{"x": 1, "y": 2, "z": 3}, NodeStatusSuccess, "")

	t2 := NewTrace("wf")
	o2 := t2.StartNode("a", State{})
	t2.CompleteNode(o2, State{"z": 3, "y": 2, "x": 1}, NodeStatusSuccess, "")

	assert.Equal(t, t1.Fingerprint(), t2.Fingerprint())
}

func TestFingerprintDiffersOnDifferentOutput(t *testing.T) {
	t1 := NewTrace("wf")
	o := t1.StartNode("a", State{})
	t1.CompleteNode(o, State{"x": 1}, NodeStatusSuccess, "")

	t2 := NewTrace("wf")
	o2 := t2.StartNode("a", State{})
	t2.CompleteNode(o2, State{"x": 2}, NodeStatusSuccess, "")

	assert.NotEqual(t, t1.Fingerprint(), t2.Fingerprint())
}

func TestReplayDetectsFirstDivergence(t *testing.T) {
	// Property 6: deterministic trace/replay.
	ref := NewTrace("wf")
	o1 := ref.StartNode("a", State{})
	ref.CompleteNode(o1, State{"v": 1}, NodeStatusSuccess, "")
	o2 := ref.StartNode("b", State{})
	ref.CompleteNode(o2, State{"v": 2}, NodeStatusSuccess, "")

	replayed := NewTrace("wf")
	p1 := replayed.StartNode("a", State{})
	replayed.CompleteNode(p1, State{"v": 1}, NodeStatusSuccess, "")
	p2 := replayed.StartNode("b", State{})
	replayed.CompleteNode(p2, State{"v": 999}, NodeStatusSuccess, "")

	div, err := Replay(ref, replayed)
	require.NoError(t, err)
	require.NotNil(t, div)
	assert.Equal(t, 1, div.NodeIndex)
}

func TestReplayIdenticalTracesNoErrror(t *testing.T) {
	ref := NewTrace("wf")
	o1 := ref.StartNode("a", State{})
	ref.CompleteNode(o1, State{"v": 1}, NodeStatusSuccess, "")

	div, err := Replay(ref, ref)
	require.NoError(t, err)
	assert.Nil(t, div)
}

func TestInvokeRecordsTraceInOrder(t *testing.T) {
	c, err := simpleLinearGraph().Compile()
	require.NoError(t, err)
	trace := NewTrace(c.ID())
	_, err = c.Invoke(context.Background(), State{}, nil, trace)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, trace.NodeOrder())
}
