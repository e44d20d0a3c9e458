package message

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mofa-run/mofa/pkg/ids"
)

func TestPriorityOrderingIsReversed(t *testing.T) {
	assert.True(t, PriorityCritical.Less(PriorityHigh))
	assert.True(t, PriorityHigh.Less(PriorityNormal))
	assert.True(t, PriorityNormal.Less(PriorityLow))
	assert.False(t, PriorityLow.Less(PriorityCritical))
}

func TestNewTaskAssignsIDAndTimestamp(t *testing.T) {
	tk := NewTask("summarize document", PriorityHigh)
	assert.NotEmpty(t, tk.TaskID)
	assert.Equal(t, PriorityHigh, tk.Priority)
	assert.False(t, tk.SubmittedAt.IsZero())
	assert.NotNil(t, tk.Metadata)
}

func TestNewTaskRequestMessageTagging(t *testing.T) {
	tk := NewTask("do work", PriorityNormal)
	msg := NewTaskRequestMessage(tk)
	assert.Equal(t, KindTaskRequest, msg.Kind)
	assert.Same(t, tk, msg.TaskRequest)
}

func TestNewEventMessageTagging(t *testing.T) {
	ev := AgentEvent{Kind: EventTaskPreempted, TaskID: ids.NewTaskID()}
	msg := NewEventMessage(ev)
	assert.Equal(t, KindEvent, msg.Kind)
	assert.Equal(t, EventTaskPreempted, msg.Event.Kind)
}
