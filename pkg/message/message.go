package message

import "github.com/mofa-run/mofa/pkg/ids"

// Kind tags the concrete payload carried by an AgentMessage.
type Kind string

const (
	KindTaskRequest    Kind = "task_request"
	KindTaskResponse   Kind = "task_response"
	KindStateSync      Kind = "state_sync"
	KindEvent          Kind = "event"
	KindStreamMessage  Kind = "stream_message"
	KindStreamControl  Kind = "stream_control"
)

// AgentMessage is the tagged union that flows over the bus. Exactly one of the Kind-specific fields is meaningful,
// selected by Kind.
type AgentMessage struct {
	Kind Kind

	// KindTaskRequest
	TaskRequest *Task

	// KindTaskResponse
	TaskResponse *TaskResponse

	// KindStateSync
	StateSync map[string]any

	// KindEvent
	Event *AgentEvent

	// KindStreamMessage
	StreamMessage *StreamMessage

	// KindStreamControl
	StreamControl *StreamControl
}

// NewTaskRequestMessage wraps a Task as a TaskRequest AgentMessage.
func NewTaskRequestMessage(t *Task) AgentMessage {
	return AgentMessage{Kind: KindTaskRequest, TaskRequest: t}
}

// NewEventMessage wraps an AgentEvent as an Event AgentMessage.
func NewEventMessage(ev AgentEvent) AgentMessage {
	return AgentMessage{Kind: KindEvent, Event: &ev}
}

// TaskResponse reports the outcome of a dispatched task.
type TaskResponse struct {
	TaskID  ids.TaskID
	AgentID ids.AgentID
	Status  ResponseStatus
	Output  string
	Err     string
}

// AgentEventKind tags the concrete payload of an AgentEvent.
type AgentEventKind string

const (
	EventTaskPreempted AgentEventKind = "task_preempted"
	EventTaskCompleted AgentEventKind = "task_completed"
	EventTaskFailed    AgentEventKind = "task_failed"
)

// AgentEvent is a scheduler/bus-level notification, distinct from the
// Telemetry DebugEvent stream (pkg/telemetry), which records workflow
// execution internals rather than scheduling events.
type AgentEvent struct {
	Kind   AgentEventKind
	TaskID ids.TaskID
}

// StreamMessage carries one chunk of a replayable data stream. Sequence is monotonic per StreamID; gaps are detectable by
// the consumer.
type StreamMessage struct {
	StreamID string
	Seq      uint64
	Bytes    []byte
}

// StreamControlKind enumerates the stream control protocol states:
// Create -> Subscribe* -> {StreamMessage}* -> Close.
type StreamControlKind string

const (
	StreamCreate    StreamControlKind = "create"
	StreamSubscribe StreamControlKind = "subscribe"
	StreamPause     StreamControlKind = "pause"
	StreamResume    StreamControlKind = "resume"
	StreamSeek      StreamControlKind = "seek"
	StreamClose     StreamControlKind = "close"
)

// StreamControl is an out-of-band control message for a StreamMessage
// sequence.
type StreamControl struct {
	StreamID string
	Kind     StreamControlKind
	// SeekTo is populated for StreamSeek, only valid on a replayable
	// (DataStream) stream type.
	SeekTo uint64
	// Reason is populated for StreamClose.
	Reason string
}
