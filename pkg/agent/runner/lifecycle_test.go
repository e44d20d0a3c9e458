package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycleHappyPath(t *testing.T) {
	l := NewLifecycle()
	assert.Equal(t, StateCreated, l.State())
	require.NoError(t, l.Transition(StateInitializing))
	require.NoError(t, l.Transition(StateReady))
	assert.True(t, l.CanExecute())
	require.NoError(t, l.Transition(StateRunning))
	assert.True(t, l.CanExecute())
	require.NoError(t, l.Transition(StatePaused))
	assert.False(t, l.CanExecute())
	require.NoError(t, l.Transition(StateRunning))
	require.NoError(t, l.Transition(StateStopping))
	require.NoError(t, l.Transition(StateStopped))
	assert.False(t, l.CanExecute())
}

func TestLifecycleRejectsInvalidTransition(t *testing.T) {
	l := NewLifecycle()
	err := l.Transition(StateRunning)
	assert.Error(t, err)
}

func TestLifecycleErrorReachableFromAnyState(t *testing.T) {
	l := NewLifecycle()
	require.NoError(t, l.Transition(StateInitializing))
	require.NoError(t, l.Transition(StateError))
	assert.Equal(t, StateError, l.State())
}

func TestLifecycleSelfTransitionIsNoOp(t *testing.T) {
	l := NewLifecycle()
	require.NoError(t, l.Transition(StateCreated))
	assert.Equal(t, StateCreated, l.State())
}
