package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mofa-run/mofa/pkg/bus"
	"github.com/mofa-run/mofa/pkg/ids"
	"github.com/mofa-run/mofa/pkg/message"
)

func newTestScheduler(t *testing.T, role string, workers ...ids.AgentID) (*Scheduler, *bus.Bus, map[ids.AgentID]<-chan bus.Delivery) {
	t.Helper()
	b := bus.New(16)
	dir := NewMemoryWorkerDirectory()
	chans := make(map[ids.AgentID]<-chan bus.Delivery)
	for _, w := range workers {
		dir.RegisterWorker(role, w)
		chans[w] = b.Subscribe(w)
	}
	return New(b, dir), b, chans
}

func TestFIFOWithinSamePriority(t *testing.T) {
	// Property 1: priority FIFO.
	w := ids.NewAgentID()
	s, _, chans := newTestScheduler(t, "worker", w)

	t1 := message.NewTask("first", message.PriorityNormal)
	t2 := message.NewTask("second", message.PriorityNormal)
	s.Submit("worker", t1)
	s.Submit("worker", t2)

	d1 := <-chans[w]
	require.NotNil(t, d1.Envelope)
	assert.Equal(t, t1.TaskID, d1.Envelope.Message.TaskRequest.TaskID)

	st, _ := s.StatusOf(t2.TaskID)
	assert.Equal(t, StatusPending, st)
}

func TestPreemptionConservation(t *testing.T) {
	// Property 2 + scenario S2: preempted task re-enters the queue, no
	// task is lost, and is eventually dispatched once the preemptor
	// completes.
	w := ids.NewAgentID()
	s, _, chans := newTestScheduler(t, "worker", w)

	t1 := message.NewTask("normal job", message.PriorityNormal)
	s.Submit("worker", t1)
	d := <-chans[w]
	require.NotNil(t, d.Envelope)
	require.Equal(t, message.KindTaskRequest, d.Envelope.Message.Kind)

	t2 := message.NewTask("critical job", message.PriorityCritical)
	s.Submit("worker", t2)

	preempt := <-chans[w]
	require.NotNil(t, preempt.Envelope)
	require.Equal(t, message.KindEvent, preempt.Envelope.Message.Kind)
	assert.Equal(t, message.EventTaskPreempted, preempt.Envelope.Message.Event.Kind)
	assert.Equal(t, t1.TaskID, preempt.Envelope.Message.Event.TaskID)

	critical := <-chans[w]
	require.NotNil(t, critical.Envelope)
	assert.Equal(t, t2.TaskID, critical.Envelope.Message.TaskRequest.TaskID)

	st, _ := s.StatusOf(t1.TaskID)
	assert.Equal(t, StatusPending, st, "preempted task must be re-enqueued, not dropped")

	s.OnTaskCompleted("worker", w, t2.TaskID)

	redispatch := <-chans[w]
	require.NotNil(t, redispatch.Envelope)
	assert.Equal(t, t1.TaskID, redispatch.Envelope.Message.TaskRequest.TaskID)
}

func TestLoadBalancedDispatchPicksLeastLoadedWorker(t *testing.T) {
	w1 := ids.NewAgentID()
	w2 := ids.NewAgentID()
	s, _, chans := newTestScheduler(t, "worker", w1, w2)

	busy := message.NewTask("busy", message.PriorityNormal)
	s.Submit("worker", busy)
	<-chans[w1] // w1 now loaded

	free := message.NewTask("free", message.PriorityNormal)
	s.Submit("worker", free)

	d := <-chans[w2]
	require.NotNil(t, d.Envelope)
	assert.Equal(t, free.TaskID, d.Envelope.Message.TaskRequest.TaskID)
}

func TestNoEligibleWorkerLeavesTaskPending(t *testing.T) {
	s, _, _ := newTestScheduler(t, "worker")
	tk := message.NewTask("orphan", message.PriorityNormal)
	s.Submit("worker", tk)
	st, ok := s.StatusOf(tk.TaskID)
	require.True(t, ok)
	assert.Equal(t, StatusPending, st)
}
