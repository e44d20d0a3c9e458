package runner

import (
	"context"
	"sync"
	"time"

	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// Stats accumulates per-runner execution statistics with an
// exponentially-weighted moving average of latency, updated after
// every execute call regardless of outcome.
type Stats struct {
	mu          sync.Mutex
	Count       int64
	Success     int64
	Failure     int64
	ewmaLatency float64 // milliseconds
}

const ewmaAlpha = 0.2

func (s *Stats) record(success bool, latency time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Count++
	if success {
		s.Success++
	} else {
		s.Failure++
	}
	ms := float64(latency.Microseconds()) / 1000.0
	if s.Count == 1 {
		s.ewmaLatency = ms
	} else {
		s.ewmaLatency = ewmaAlpha*ms + (1-ewmaAlpha)*s.ewmaLatency
	}
}

// Snapshot is a point-in-time copy of Stats, safe to read without
// holding the runner's lock.
type Snapshot struct {
	Count       int64
	Success     int64
	Failure     int64
	EWMALatency float64
}

func (s *Stats) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Count: s.Count, Success: s.Success, Failure: s.Failure, EWMALatency: s.ewmaLatency}
}

// Runner wraps one agent's tool loop with the lifecycle state machine,
// exposing the execute/pause/resume/interrupt/shutdown surface. A
// Runner owns exactly one Context and Lifecycle; it is
// created once and destroyed on Shutdown.
type Runner struct {
	lifecycle *Lifecycle
	loop      *ToolLoop
	ctx       *Context
	stats     Stats

	mu      sync.Mutex
	history []ChatTurn
}

// New wires a Runner around an already-constructed loop and context,
// and transitions it Created -> Initializing -> Ready.
func New(loop *ToolLoop, actx *Context) (*Runner, error) {
	r := &Runner{lifecycle: NewLifecycle(), loop: loop, ctx: actx}
	if err := r.lifecycle.Transition(StateInitializing); err != nil {
		return nil, err
	}
	if err := r.lifecycle.Transition(StateReady); err != nil {
		return nil, err
	}
	return r, nil
}

// State returns the runner's current lifecycle state.
func (r *Runner) State() State { return r.lifecycle.State() }

// Stats returns a snapshot of accumulated execution statistics.
func (r *Runner) Stats() Snapshot { return r.stats.snapshot() }

// Execute runs one tool-loop turn over systemPrompt + the runner's
// accumulated history + input. Only Ready/Running accept it; Paused
// buffers nothing here because a Runner invoked directly has no queue
// of its own — callers route through the bus/scheduler while paused.
func (r *Runner) Execute(ctx context.Context, systemPrompt, input string) (string, error) {
	if !r.lifecycle.CanExecute() {
		return "", mofaerr.New(mofaerr.InvalidStateTransition, "execute called while runner is "+string(r.State()))
	}
	if err := r.lifecycle.Transition(StateRunning); err != nil {
		return "", err
	}
	defer r.lifecycle.Transition(StateReady)

	start := time.Now()
	r.mu.Lock()
	history := append([]ChatTurn{}, r.history...)
	r.mu.Unlock()

	content, updated, err := r.loop.Run(ctx, r.ctx, systemPrompt, history, input)

	r.mu.Lock()
	r.history = updated
	r.mu.Unlock()

	r.stats.record(err == nil, time.Since(start))
	return content, err
}

// ExecuteBatch runs Execute for each input in order, stopping at the
// first error. Errors from inputs after the failure are not attempted,
// matching the sequential dependency a shared history implies.
func (r *Runner) ExecuteBatch(ctx context.Context, systemPrompt string, inputs []string) ([]string, error) {
	outputs := make([]string, 0, len(inputs))
	for _, in := range inputs {
		out, err := r.Execute(ctx, systemPrompt, in)
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// Pause moves Running -> Paused.
func (r *Runner) Pause() error { return r.lifecycle.Transition(StatePaused) }

// Resume moves Paused -> Running.
func (r *Runner) Resume() error { return r.lifecycle.Transition(StateRunning) }

// Interrupt raises the runner's context interruption flag. It is
// idempotent (property 8): calling it twice has the same effect as
// once, since Context.Interrupt just sets an atomic bool.
func (r *Runner) Interrupt() { r.ctx.Interrupt() }

// Shutdown transitions the runner to Stopped via Stopping. After this
// call the Runner must not be reused.
func (r *Runner) Shutdown() error {
	if err := r.lifecycle.Transition(StateStopping); err != nil {
		return err
	}
	return r.lifecycle.Transition(StateStopped)
}
