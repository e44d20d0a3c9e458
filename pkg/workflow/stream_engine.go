package workflow

import "context"

// Stream runs the graph to completion, emitting one StreamEvent per
// node transition on the returned channel. The
// channel is closed after an End or Error event. Cancelling ctx makes
// the next suspension point yield an Error event (Error "interrupted",
// or the running node's own error text when it returns one), after
// which the channel closes.
//
// The engine buffers at most one event between yields: the channel has
// capacity 1, so a stalled consumer applies backpressure to the
// producing goroutine rather than unbounded memory growth.
func (c *Compiled) Stream(ctx context.Context, input State, rtc *RuntimeContext) <-chan StreamEvent {
	out := make(chan StreamEvent, 1)
	if rtc == nil {
		rtc = NewRuntimeContext(c.config.MaxSteps)
	}

	go func() {
		defer close(out)
		state := input
		current, err := c.resolveNext(START, Command{})
		if err != nil {
			emit(ctx, out, StreamEvent{Kind: EventError, Error: err.Error()})
			return
		}

		for current != END {
			rtc.RemainingSteps--
			if rtc.RemainingSteps < 0 {
				emit(ctx, out, StreamEvent{Kind: EventError, Error: "recursion limit reached"})
				return
			}

			select {
			case <-ctx.Done():
				emit(ctx, out, StreamEvent{Kind: EventError, Error: "interrupted"})
				return
			default:
			}

			if !emit(ctx, out, StreamEvent{Kind: EventNodeStart, NodeID: current, State: state}) {
				return
			}

			next, newState, cmd, err := c.stepWithCommand(ctx, current, state, rtc)
			if err != nil {
				emit(ctx, out, StreamEvent{Kind: EventError, NodeID: current, Error: err.Error()})
				return
			}
			if !emit(ctx, out, StreamEvent{Kind: EventNodeEnd, NodeID: current, State: newState, Command: cmd}) {
				return
			}

			state = newState
			current = next
		}
		emit(ctx, out, StreamEvent{Kind: EventEnd, FinalState: state})
	}()

	return out
}

// emit sends ev on out and returns true once it is delivered. An Error
// event is always delivered. If ctx is cancelled before any other event
// is sent, an "interrupted" Error event is delivered in its place and
// emit returns false. A consumer therefore sees the terminal Error as
// long as it drains the channel until it closes.
func emit(ctx context.Context, out chan<- StreamEvent, ev StreamEvent) bool {
	if ev.Kind == EventError {
		out <- ev
		return true
	}
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		out <- StreamEvent{Kind: EventError, NodeID: ev.NodeID, Error: "interrupted"}
		return false
	}
}

// stepWithCommand is like step but also returns the Command the node
// produced, needed for the NodeEnd stream event.
func (c *Compiled) stepWithCommand(ctx context.Context, current string, state State, rtc *RuntimeContext) (string, State, Command, error) {
	edge := c.edges[current]
	if edge.Kind == EdgeParallel {
		next, newState, err := c.stepParallel(ctx, current, edge, state, rtc, nil)
		return next, newState, Command{}, err
	}
	cmd, err := c.runNode(ctx, current, state, rtc, nil)
	if err != nil {
		if fb, ok := c.fallback[current]; ok {
			return fb, state, cmd, nil
		}
		return "", nil, cmd, err
	}
	newState, err := c.applyUpdates(state, cmd.Updates)
	if err != nil {
		return "", nil, cmd, err
	}
	next, err := c.resolveNext(current, cmd)
	if err != nil {
		return "", nil, cmd, err
	}
	return next, newState, cmd, nil
}
