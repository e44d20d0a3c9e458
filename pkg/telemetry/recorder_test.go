package telemetry

import (
	"testing"

	"github.com/mofa-run/mofa/pkg/ids"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderEventsAreAppendOnlyAndOrdered(t *testing.T) {
	r := NewRecorder(0)
	sid := r.StartSession("wf", ids.NewExecutionID())

	require.NoError(t, r.RecordEvent(sid, DebugEvent{Kind: EventWorkflowStart}))
	require.NoError(t, r.RecordEvent(sid, DebugEvent{Kind: EventNodeStart, Node: "a"}))
	require.NoError(t, r.RecordEvent(sid, DebugEvent{Kind: EventNodeEnd, Node: "a"}))

	events := r.GetEvents(sid)
	require.Len(t, events, 3)
	for i, ev := range events {
		assert.Equal(t, int64(i), ev.Seq)
	}
	assert.True(t, events[0].TimeUnixNano <= events[1].TimeUnixNano)
	assert.True(t, events[1].TimeUnixNano <= events[2].TimeUnixNano)
}

func TestRecordEventAfterEndFails(t *testing.T) {
	r := NewRecorder(0)
	sid := r.StartSession("wf", ids.NewExecutionID())
	require.NoError(t, r.EndSession(sid, SessionCompleted))

	err := r.RecordEvent(sid, DebugEvent{Kind: EventNodeStart})
	assert.Error(t, err)
}

func TestEndSessionCancelledStatus(t *testing.T) {
	// Scenario S5: the recorder ends a streaming session with status
	// "cancelled" after an interruption.
	r := NewRecorder(0)
	sid := r.StartSession("wf", ids.NewExecutionID())
	require.NoError(t, r.EndSession(sid, SessionCancelled))

	sess, ok := r.GetSession(sid)
	require.True(t, ok)
	assert.Equal(t, SessionCancelled, sess.Status)
	assert.NotZero(t, sess.EndedAt)
}

func TestEndSessionIsIdempotent(t *testing.T) {
	r := NewRecorder(0)
	sid := r.StartSession("wf", ids.NewExecutionID())
	require.NoError(t, r.EndSession(sid, SessionFailed))
	require.NoError(t, r.EndSession(sid, SessionCompleted))

	sess, _ := r.GetSession(sid)
	assert.Equal(t, SessionFailed, sess.Status, "first EndSession call wins")
}

func TestRecorderEvictsOldestSessionPastMaxSize(t *testing.T) {
	r := NewRecorder(2)
	first := r.StartSession("wf", ids.NewExecutionID())
	r.StartSession("wf", ids.NewExecutionID())
	r.StartSession("wf", ids.NewExecutionID())

	_, ok := r.GetSession(first)
	assert.False(t, ok, "oldest session should have been evicted")
	assert.Len(t, r.ListSessions(), 2)
}
