package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/mofa-run/mofa/pkg/ids"
	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// Snapshot is a point-in-time capture of one execution.
// Grounded on hector's pkg/checkpoint.State/Manager: a checkpoint is
// identified by execution, carries the node the engine was about to
// run next, and the state accumulated so far.
type Snapshot struct {
	ExecutionID    ids.ExecutionID
	GraphID        string
	CurrentNode    string
	State          State
	RemainingSteps int
	SavedAt        time.Time
}

// Checkpointer persists and restores Snapshots, keyed by ExecutionID.
// A durable backend (e.g. a SessionStore-backed implementation) is
// external to this package (pkg/persistence's SessionStore is the
// natural home for one); MemoryCheckpointer is the in-process
// reference implementation.
type Checkpointer interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context, executionID ids.ExecutionID) (*Snapshot, error)
	Clear(ctx context.Context, executionID ids.ExecutionID) error
}

// MemoryCheckpointer is a process-local Checkpointer, analogous to
// hector's checkpoint.Storage but keyed by ExecutionID instead of
// (appName, userID, sessionID, taskID).
type MemoryCheckpointer struct {
	mu    sync.RWMutex
	byExe map[ids.ExecutionID]*Snapshot
}

// NewMemoryCheckpointer returns an empty in-memory Checkpointer.
func NewMemoryCheckpointer() *MemoryCheckpointer {
	return &MemoryCheckpointer{byExe: make(map[ids.ExecutionID]*Snapshot)}
}

func (c *MemoryCheckpointer) Save(ctx context.Context, snap *Snapshot) error {
	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *snap
	cp.State = snap.State.Clone()
	c.byExe[snap.ExecutionID] = &cp
	return nil
}

func (c *MemoryCheckpointer) Load(ctx context.Context, executionID ids.ExecutionID) (*Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.byExe[executionID]
	if !ok {
		return nil, mofaerr.New(mofaerr.NotFound, "no checkpoint for execution "+string(executionID))
	}
	cp := *snap
	cp.State = snap.State.Clone()
	return &cp, nil
}

func (c *MemoryCheckpointer) Clear(ctx context.Context, executionID ids.ExecutionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byExe, executionID)
	return nil
}

// Checkpoint saves the engine's position so Resume can continue a
// later call to Invoke from current rather than __START__.
func (c *Compiled) Checkpoint(ctx context.Context, cp Checkpointer, current string, state State, rtc *RuntimeContext) error {
	return cp.Save(ctx, &Snapshot{
		ExecutionID:    rtc.ExecutionID,
		GraphID:        c.id,
		CurrentNode:    current,
		State:          state,
		RemainingSteps: rtc.RemainingSteps,
	})
}

// Resume restores a prior Snapshot and continues execution from its
// CurrentNode to completion, the way RecoveryManager.ResumeTask
// replays a pending checkpoint on startup.
func (c *Compiled) Resume(ctx context.Context, cp Checkpointer, executionID ids.ExecutionID) (State, error) {
	snap, err := cp.Load(ctx, executionID)
	if err != nil {
		return nil, err
	}
	if snap.GraphID != c.id {
		return nil, mofaerr.New(mofaerr.ValidationFailed, "checkpoint graph "+snap.GraphID+" does not match compiled graph "+c.id)
	}
	rtc := &RuntimeContext{
		ExecutionID:    snap.ExecutionID,
		RemainingSteps: snap.RemainingSteps,
		Values:         make(map[string]any),
	}
	state := snap.State
	current := snap.CurrentNode
	for current != END {
		next, newState, err := c.step(ctx, current, state, rtc, nil)
		if err != nil {
			return state, err
		}
		current, state = next, newState
	}
	return state, nil
}
