package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mofa-run/mofa/pkg/ids"
	"github.com/mofa-run/mofa/pkg/message"
)

func TestPointToPointOrderPreservation(t *testing.T) {
	// Property 10: for a fixed (sender, recipient) pair, received
	// order equals send order modulo documented Lagged drops.
	b := New(16)
	sender := ids.NewAgentID()
	recipient := ids.NewAgentID()
	ch := b.Subscribe(recipient)

	for i := 0; i < 5; i++ {
		tk := message.NewTask("task", message.PriorityNormal)
		b.Send(sender, PointToPoint, recipient, "", message.NewTaskRequestMessage(tk))
		_ = i
	}

	var seqs []uint64
	for i := 0; i < 5; i++ {
		d := <-ch
		require.NotNil(t, d.Envelope)
		seqs = append(seqs, d.Envelope.Seq)
	}
	for i := 1; i < len(seqs); i++ {
		assert.Greater(t, seqs[i], seqs[i-1])
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	b := New(4)
	a1 := ids.NewAgentID()
	a2 := ids.NewAgentID()
	ch1 := b.Subscribe(a1)
	ch2 := b.Subscribe(a2)

	sender := ids.NewAgentID()
	tk := message.NewTask("broadcast me", message.PriorityLow)
	b.Send(sender, Broadcast, "", "", message.NewTaskRequestMessage(tk))

	d1 := <-ch1
	d2 := <-ch2
	require.NotNil(t, d1.Envelope)
	require.NotNil(t, d2.Envelope)
}

func TestTopicDeliversOnlyToSubscribedAgents(t *testing.T) {
	b := New(4)
	subscribed := ids.NewAgentID()
	notSubscribed := ids.NewAgentID()
	ch := b.Subscribe(subscribed)
	_ = b.Subscribe(notSubscribed)
	b.SubscribeTopic(subscribed, "alerts")

	sender := ids.NewAgentID()
	tk := message.NewTask("alert", message.PriorityHigh)
	b.Send(sender, Topic, "", "alerts", message.NewTaskRequestMessage(tk))

	d := <-ch
	require.NotNil(t, d.Envelope)
	assert.Equal(t, "alerts", d.Envelope.Topic)
}

func TestSlowConsumerGetsLaggedNotBlockProducer(t *testing.T) {
	b := New(2)
	recipient := ids.NewAgentID()
	ch := b.Subscribe(recipient)
	sender := ids.NewAgentID()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			tk := message.NewTask("t", message.PriorityNormal)
			b.Send(sender, PointToPoint, recipient, "", message.NewTaskRequestMessage(tk))
		}
	}()
	<-done // producer must never block regardless of consumer speed

	var sawLagged bool
	for len(ch) > 0 {
		if d := <-ch; d.Lagged != nil {
			sawLagged = true
		}
	}
	assert.True(t, sawLagged, "a full buffer must surface a Lagged delivery")
}

func TestTaskPreemptedEventRouting(t *testing.T) {
	// Scenario S2: the bus observes Event(TaskPreempted) addressed to
	// the preempted worker.
	b := New(4)
	worker := ids.NewAgentID()
	ch := b.Subscribe(worker)
	scheduler := ids.NewAgentID()

	taskID := ids.NewTaskID()
	ev := message.AgentEvent{Kind: message.EventTaskPreempted, TaskID: taskID}
	b.Send(scheduler, PointToPoint, worker, "", message.NewEventMessage(ev))

	d := <-ch
	require.NotNil(t, d.Envelope)
	require.Equal(t, message.KindEvent, d.Envelope.Message.Kind)
	assert.Equal(t, message.EventTaskPreempted, d.Envelope.Message.Event.Kind)
	assert.Equal(t, taskID, d.Envelope.Message.Event.TaskID)
}
