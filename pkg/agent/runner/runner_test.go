package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunnerExecuteHappyPath(t *testing.T) {
	provider := &scriptedProvider{responses: []ChatResponse{{Content: "hi there"}}}
	loop := NewToolLoop(provider, NewToolRegistry(), DefaultLoopConfig())
	r, err := New(loop, NewContext(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, StateReady, r.State())

	out, err := r.Execute(context.Background(), "sys", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", out)
	assert.Equal(t, StateReady, r.State())

	stats := r.Stats()
	assert.Equal(t, int64(1), stats.Count)
	assert.Equal(t, int64(1), stats.Success)
}

func TestRunnerRejectsExecuteWhilePaused(t *testing.T) {
	provider := &scriptedProvider{responses: []ChatResponse{{Content: "hi"}}}
	loop := NewToolLoop(provider, NewToolRegistry(), DefaultLoopConfig())
	r, err := New(loop, NewContext(nil, nil))
	require.NoError(t, err)

	// Pause is only valid from Running.
	require.NoError(t, r.lifecycle.Transition(StateRunning))
	require.NoError(t, r.Pause())
	_, err = r.Execute(context.Background(), "sys", "hello")
	assert.Error(t, err)

	require.NoError(t, r.Resume())
	_, err = r.Execute(context.Background(), "sys", "hello")
	assert.NoError(t, err)
}

func TestRunnerInterruptStopsToolLoop(t *testing.T) {
	r, err := New(NewToolLoop(foreverToolCallsProvider{}, NewToolRegistry(echoTool{}), LoopConfig{MaxToolIterations: 100}), NewContext(nil, nil))
	require.NoError(t, err)

	r.Interrupt()
	_, execErr := r.Execute(context.Background(), "sys", "go")
	assert.Error(t, execErr)
}

func TestRunnerShutdownThenRejectsExecute(t *testing.T) {
	provider := &scriptedProvider{responses: []ChatResponse{{Content: "hi"}}}
	loop := NewToolLoop(provider, NewToolRegistry(), DefaultLoopConfig())
	r, err := New(loop, NewContext(nil, nil))
	require.NoError(t, err)

	require.NoError(t, r.Shutdown())
	assert.Equal(t, StateStopped, r.State())
	_, err = r.Execute(context.Background(), "sys", "hello")
	assert.Error(t, err)
}

func TestExecuteBatchStopsOnFirstError(t *testing.T) {
	r, err := New(NewToolLoop(foreverToolCallsProvider{}, NewToolRegistry(echoTool{}), LoopConfig{MaxToolIterations: 100}), NewContext(nil, nil))
	require.NoError(t, err)
	r.Interrupt()

	out, err := r.ExecuteBatch(context.Background(), "sys", []string{"a", "b", "c"})
	assert.Error(t, err)
	assert.Empty(t, out)
}
