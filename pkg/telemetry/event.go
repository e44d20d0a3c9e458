// Package telemetry implements the debug/session recorder (C10):
// an append-only log of DebugEvents keyed by DebugSession, grounded on
// hector's pkg/observability.DebugExporter (span capture, in-memory
// retention with an eviction cap) adapted from OpenTelemetry spans to
// a workflow/agent-level event union.
package telemetry

import "github.com/mofa-run/mofa/pkg/ids"

// EventKind tags a DebugEvent's payload shape.
type EventKind string

const (
	EventWorkflowStart EventKind = "workflow_start"
	EventNodeStart     EventKind = "node_start"
	EventStateChange   EventKind = "state_change"
	EventNodeEnd       EventKind = "node_end"
	EventErrorKind     EventKind = "error"
	EventWorkflowEnd   EventKind = "workflow_end"
)

// DebugEvent is a tagged union over the recordable event kinds.
// Only the fields relevant to Kind are populated; the rest are zero.
type DebugEvent struct {
	Kind      EventKind
	Seq       int64 // monotonic within a session, assigned by the Recorder
	TimeUnixNano int64

	Node          string
	StateSnapshot map[string]any
	Key           string
	OldValue      any
	NewValue      any
	DurationMs    float64
	ErrMsg        string
	Status        string // terminal status on WorkflowEnd
}

// SessionStatus is a DebugSession's terminal or in-flight status.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
	SessionCancelled SessionStatus = "cancelled"
)

// DebugSession is one recorded run.
type DebugSession struct {
	SessionID   ids.SessionID
	WorkflowID  string
	ExecutionID ids.ExecutionID
	StartedAt   int64
	EndedAt     int64 // zero while running
	Status      SessionStatus
	EventCount  int
}
