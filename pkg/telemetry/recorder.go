package telemetry

import (
	"sort"
	"sync"
	"time"

	"github.com/mofa-run/mofa/pkg/ids"
	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// Recorder is an append-only, in-memory session/event store. Events for
// a session are ordered by Seq, which Recorder assigns itself under its
// lock so callers can't violate that ordering by racing on wall-clock
// time; TimeUnixNano is a wall-clock stamp taken at the same moment.
//
// Structurally a sibling of hector's observability.DebugExporter: a
// maxSize eviction cap over accumulated records, RWMutex-guarded, with
// query methods returning defensive copies.
type Recorder struct {
	mu       sync.RWMutex
	sessions map[ids.SessionID]*DebugSession
	events   map[ids.SessionID][]DebugEvent
	order    []ids.SessionID // insertion order, oldest first, for eviction
	maxSize  int
}

// NewRecorder returns a Recorder retaining at most maxSessions
// sessions; 0 means unbounded.
func NewRecorder(maxSessions int) *Recorder {
	return &Recorder{
		sessions: make(map[ids.SessionID]*DebugSession),
		events:   make(map[ids.SessionID][]DebugEvent),
		maxSize:  maxSessions,
	}
}

// StartSession opens a new session and returns its ID.
func (r *Recorder) StartSession(workflowID string, executionID ids.ExecutionID) ids.SessionID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := ids.NewSessionID()
	r.sessions[id] = &DebugSession{
		SessionID:   id,
		WorkflowID:  workflowID,
		ExecutionID: executionID,
		StartedAt:   time.Now().UnixNano(),
		Status:      SessionRunning,
	}
	r.order = append(r.order, id)
	r.evictLocked()
	return id
}

// RecordEvent appends ev to sessionID's event log, stamping Seq and
// TimeUnixNano. Recording against an ended or unknown session errors.
func (r *Recorder) RecordEvent(sessionID ids.SessionID, ev DebugEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[sessionID]
	if !ok {
		return mofaerr.New(mofaerr.NotFound, "unknown debug session")
	}
	if sess.EndedAt != 0 {
		return mofaerr.New(mofaerr.InvalidInput, "session has already ended")
	}

	ev.Seq = int64(len(r.events[sessionID]))
	ev.TimeUnixNano = time.Now().UnixNano()
	r.events[sessionID] = append(r.events[sessionID], ev)
	sess.EventCount++
	return nil
}

// EndSession closes sessionID with the given terminal status. Ending an
// already-ended session is a no-op, matching cancellation idempotence
// elsewhere in the runtime.
func (r *Recorder) EndSession(sessionID ids.SessionID, status SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[sessionID]
	if !ok {
		return mofaerr.New(mofaerr.NotFound, "unknown debug session")
	}
	if sess.EndedAt != 0 {
		return nil
	}
	sess.EndedAt = time.Now().UnixNano()
	sess.Status = status
	return nil
}

// GetSession returns a copy of sessionID's current metadata.
func (r *Recorder) GetSession(sessionID ids.SessionID) (DebugSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[sessionID]
	if !ok {
		return DebugSession{}, false
	}
	return *sess, true
}

// GetEvents returns sessionID's events in recorded (monotonic) order.
func (r *Recorder) GetEvents(sessionID ids.SessionID) []DebugEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.events[sessionID]
	out := make([]DebugEvent, len(src))
	copy(out, src)
	return out
}

// ListSessions returns every retained session, most recently started
// first.
func (r *Recorder) ListSessions() []DebugSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DebugSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt > out[j].StartedAt })
	return out
}

// evictLocked drops the oldest session once maxSize is exceeded.
// Caller must hold the write lock.
func (r *Recorder) evictLocked() {
	if r.maxSize <= 0 {
		return
	}
	for len(r.order) > r.maxSize {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.sessions, oldest)
		delete(r.events, oldest)
	}
}
