package workflow

// StreamEventKind tags the concrete payload of a StreamEvent.
type StreamEventKind string

const (
	EventNodeStart    StreamEventKind = "node_start"
	EventNodeEnd      StreamEventKind = "node_end"
	EventEnd          StreamEventKind = "end"
	EventError        StreamEventKind = "error"
	EventNodeRetry    StreamEventKind = "node_retry"
	EventNodeFallback StreamEventKind = "node_fallback"
	EventCircuitOpen  StreamEventKind = "circuit_open"
)

// StreamEvent is one unit of the execution stream. Exactly the fields
// relevant to Kind are populated.
type StreamEvent struct {
	Kind StreamEventKind

	NodeID string
	State  State
	Command Command

	FinalState State

	Error string

	RetryAttempt uint32

	FallbackFrom string
	FallbackTo   string
	Reason       string
}
