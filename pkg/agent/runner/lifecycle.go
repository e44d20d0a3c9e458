// Package runner implements the agent lifecycle state machine and the
// tool-invocation loop. A Runner owns exactly one agent's tool loop,
// drives it through Created → Stopped, and arbitrates
// cooperative interruption the way the workflow engine's RuntimeContext
// does for graphs.
package runner

import (
	"fmt"
	"sync"

	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// State is one state in the agent lifecycle.
type State string

const (
	StateCreated      State = "created"
	StateInitializing State = "initializing"
	StateReady        State = "ready"
	StateRunning      State = "running"
	StatePaused       State = "paused"
	StateStopping     State = "stopping"
	StateStopped      State = "stopped"
	StateError        State = "error"
)

// validTransitions enumerates every allowed edge. Error is reachable
// from any state and is therefore not listed as a destination;
// Transition special-cases it.
var validTransitions = map[State][]State{
	StateCreated:      {StateInitializing},
	StateInitializing: {StateReady},
	StateReady:        {StateRunning, StateStopping},
	StateRunning:      {StatePaused, StateReady, StateStopping},
	StatePaused:       {StateRunning, StateStopping},
	StateStopping:     {StateStopped},
	StateStopped:      {},
	StateError:        {StateInitializing, StateStopping},
}

// Lifecycle guards an agent's state machine with a mutex; it does not
// itself run any agent code.
type Lifecycle struct {
	mu    sync.Mutex
	state State
}

// NewLifecycle starts a lifecycle in Created.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateCreated}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// CanExecute reports whether execute() may be called right now. Only
// Ready and Running accept it; Paused buffers but does not dispatch.
func (l *Lifecycle) CanExecute() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == StateReady || l.state == StateRunning
}

// Transition moves the lifecycle to next, or returns
// InvalidStateTransition if the edge isn't allowed. Any state may
// transition to Error.
func (l *Lifecycle) Transition(next State) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if next == StateError {
		l.state = StateError
		return nil
	}
	if next == l.state {
		return nil // self-transitions are no-ops, not errors
	}
	for _, allowed := range validTransitions[l.state] {
		if allowed == next {
			l.state = next
			return nil
		}
	}
	return mofaerr.NewInvalidStateTransition(string(l.state), string(next))
}

func (l *Lifecycle) String() string {
	return fmt.Sprintf("Lifecycle(%s)", l.State())
}
