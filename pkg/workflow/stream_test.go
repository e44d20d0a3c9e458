package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamEmitsNodeStartAndEndThenEnd(t *testing.T) {
	c, err := simpleLinearGraph().Compile()
	require.NoError(t, err)

	var kinds []StreamEventKind
	for ev := range c.Stream(context.Background(), State{}, nil) {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []StreamEventKind{
		EventNodeStart, EventNodeEnd,
		EventNodeStart, EventNodeEnd,
		EventEnd,
	}, kinds)
}

func TestStreamCancellationYieldsErrorAndCloses(t *testing.T) {
	// Scenario S5: streaming cancellation.
	b := NewBuilder("slow")
	started := make(chan struct{})
	b.AddNode("a", func(ctx context.Context, state State, rtc *RuntimeContext) (Command, error) {
		close(started)
		select {
		case <-ctx.Done():
			return Command{}, ctx.Err()
		case <-time.After(time.Second):
			return NewCommand(), nil
		}
	})
	b.SetEntryPoint("a")
	b.SetFinishPoint("a")
	c, err := b.Compile()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	events := c.Stream(ctx, State{}, nil)

	<-started
	cancel()

	var sawError bool
	for ev := range events {
		if ev.Kind == EventError {
			sawError = true
		}
	}
	assert.True(t, sawError, "cancellation must surface as an Error event before the channel closes")
}

func TestInvokeFollowsFallbackEdgeOnPermanentFailure(t *testing.T) {
	b := NewBuilder("fb")
	b.AddNode("risky", func(ctx context.Context, state State, rtc *RuntimeContext) (Command, error) {
		return Command{}, assertionError("boom")
	})
	b.AddNode("safe", passthrough("safe"))
	b.SetEntryPoint("risky")
	b.AddFallbackEdge("risky", "safe")
	b.SetFinishPoint("safe")
	c, err := b.Compile()
	require.NoError(t, err)

	final, err := c.Invoke(context.Background(), State{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, true, final["safe"])
}

type assertionError string

func (e assertionError) Error() string { return string(e) }
