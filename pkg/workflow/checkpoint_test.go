package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCheckpointerSaveLoadClear(t *testing.T) {
	ctx := context.Background()
	cp := NewMemoryCheckpointer()
	rtc := NewRuntimeContext(25)

	c, err := simpleLinearGraph().Compile()
	require.NoError(t, err)

	state := State{"a": true}
	require.NoError(t, c.Checkpoint(ctx, cp, "b", state, rtc))

	loaded, err := cp.Load(ctx, rtc.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, "b", loaded.CurrentNode)
	assert.Equal(t, "linear", loaded.GraphID)
	assert.Equal(t, true, loaded.State["a"])

	require.NoError(t, cp.Clear(ctx, rtc.ExecutionID))
	_, err = cp.Load(ctx, rtc.ExecutionID)
	assert.Error(t, err)
}

func TestMemoryCheckpointerLoadMissingReturnsError(t *testing.T) {
	cp := NewMemoryCheckpointer()
	_, err := cp.Load(context.Background(), "ghost")
	assert.Error(t, err)
}

func TestCompiledResumeContinuesFromSavedNode(t *testing.T) {
	ctx := context.Background()
	cp := NewMemoryCheckpointer()
	rtc := NewRuntimeContext(25)

	c, err := simpleLinearGraph().Compile()
	require.NoError(t, err)

	require.NoError(t, c.Checkpoint(ctx, cp, "b", State{"a": true}, rtc))

	final, err := c.Resume(ctx, cp, rtc.ExecutionID)
	require.NoError(t, err)
	assert.Equal(t, true, final["a"])
	assert.Equal(t, true, final["b"])
}

func TestCompiledResumeRejectsMismatchedGraph(t *testing.T) {
	ctx := context.Background()
	cp := NewMemoryCheckpointer()
	rtc := NewRuntimeContext(25)

	c, err := simpleLinearGraph().Compile()
	require.NoError(t, err)
	require.NoError(t, c.Checkpoint(ctx, cp, "b", State{}, rtc))

	other := NewBuilder("other")
	other.AddNode("x", passthrough("x"))
	other.SetEntryPoint("x")
	other.SetFinishPoint("x")
	otherCompiled, err := other.Compile()
	require.NoError(t, err)

	_, err = otherCompiled.Resume(ctx, cp, rtc.ExecutionID)
	assert.Error(t, err)
}
