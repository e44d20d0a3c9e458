package workflow

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mofa-run/mofa/pkg/mofaerr"
	"github.com/mofa-run/mofa/pkg/resilience"
)

// Compiled is an executable graph produced by Builder.Compile.
type Compiled struct {
	id       string
	nodes    map[string]Node
	edges    map[string]Edge
	fallback map[string]string
	reducers map[string]Reducer
	config   GraphConfig

	retryPolicy     *resilience.RetryPolicy
	circuitBreakers map[string]*resilience.CircuitBreaker
}

// ID returns the compiled graph's identifier.
func (c *Compiled) ID() string { return c.id }

// WithRetryPolicy attaches a retry policy applied to every node's
// transient failures.
func (c *Compiled) WithRetryPolicy(p resilience.RetryPolicy) *Compiled {
	c.retryPolicy = &p
	return c
}

// WithNodeCircuitBreaker attaches a circuit breaker guarding nodeID.
func (c *Compiled) WithNodeCircuitBreaker(nodeID string, cb *resilience.CircuitBreaker) *Compiled {
	if c.circuitBreakers == nil {
		c.circuitBreakers = make(map[string]*resilience.CircuitBreaker)
	}
	c.circuitBreakers[nodeID] = cb
	return c
}

// StepResult is the outcome of executing a single node.
type StepResult struct {
	State      State
	NodeID     string
	Command    Command
	IsComplete bool
	NextNode   string
}

// reducerFor returns the registered reducer for key, defaulting to
// OverwriteReducer.
func (c *Compiled) reducerFor(key string) Reducer {
	if r, ok := c.reducers[key]; ok {
		return r
	}
	return OverwriteReducer{}
}

// applyUpdates merges cmd.Updates into state through each key's
// reducer, in map order for single updates and in declared target
// order for parallel merges (see mergeParallel).
func (c *Compiled) applyUpdates(state State, updates map[string]any) (State, error) {
	out := state.Clone()
	for k, v := range updates {
		current, _ := out.Get(k)
		merged, err := c.reducerFor(k).Reduce(current, v)
		if err != nil {
			return nil, mofaerr.Wrap(mofaerr.ExecutionFailed, "reducer failed for key "+k, err)
		}
		out[k] = merged
	}
	return out, nil
}

// mergeParallel merges N children's update sets into base, processing
// each key across children in the declared target order so that the
// result is deterministic.
func (c *Compiled) mergeParallel(base State, orderedUpdates []map[string]any) (State, error) {
	out := base.Clone()
	for _, updates := range orderedUpdates {
		merged, err := c.applyUpdates(out, updates)
		if err != nil {
			return nil, err
		}
		out = merged
	}
	return out, nil
}

// resolveNext determines the next node ID given the current node's
// static edge and the Command it returned.
func (c *Compiled) resolveNext(nodeID string, cmd Command) (string, error) {
	if cmd.End {
		return END, nil
	}
	edge, hasEdge := c.edges[nodeID]

	if cmd.Goto != "" {
		if hasEdge && edge.Kind == EdgeConditional {
			if target, ok := edge.Routes[cmd.Goto]; ok {
				return target, nil
			}
			if edge.Default != "" {
				return edge.Default, nil
			}
			return "", mofaerr.New(mofaerr.ValidationFailed,
				"conditional edge from "+nodeID+" had no route for "+cmd.Goto+" and no default branch")
		}
		// A plain Goto overrides a static single edge outright.
		return cmd.Goto, nil
	}

	if !hasEdge {
		return "", mofaerr.New(mofaerr.ValidationFailed, "node "+nodeID+" has no outgoing edge and returned no Goto")
	}
	switch edge.Kind {
	case EdgeSingle:
		return edge.Target, nil
	case EdgeConditional:
		if edge.Default != "" {
			return edge.Default, nil
		}
		return "", mofaerr.New(mofaerr.ValidationFailed, "conditional edge from "+nodeID+" has no default and node gave no route")
	case EdgeParallel:
		// Parallel fan-out is handled by the caller (Invoke/Step), not
		// via a single "next" node.
		return "", nil
	}
	return "", mofaerr.New(mofaerr.Internal, "unreachable edge kind")
}

// runNode executes one node's function, applying the circuit breaker
// and retry policy if configured, classifying the outcome.
func (c *Compiled) runNode(ctx context.Context, nodeID string, state State, rtc *RuntimeContext, onRetry func(attempt uint32, err error)) (Command, error) {
	node, ok := c.nodes[nodeID]
	if !ok {
		return Command{}, mofaerr.New(mofaerr.NotFound, "no such node: "+nodeID)
	}

	call := func(ctx context.Context) (Command, error) {
		select {
		case <-ctx.Done():
			return Command{}, mofaerr.New(mofaerr.Interrupted, "execution cancelled")
		default:
		}
		if cb, ok := c.circuitBreakers[nodeID]; ok {
			return resilience.ExecuteWithResult(cb, func() (Command, error) { return node.Fn(ctx, state, rtc) })
		}
		return node.Fn(ctx, state, rtc)
	}

	if c.retryPolicy == nil {
		return call(ctx)
	}

	var lastCmd Command
	attempt := uint32(0)
	err := c.retryPolicy.Do(ctx, func(ctx context.Context) error {
		cmd, err := call(ctx)
		lastCmd = cmd
		if err != nil && attempt > 0 && onRetry != nil {
			onRetry(attempt, err)
		}
		attempt++
		return err
	})
	return lastCmd, err
}

// Invoke runs the graph to completion from input, returning the final
// state. If trace is non-nil, every node execution is recorded into
// it.
func (c *Compiled) Invoke(ctx context.Context, input State, rtc *RuntimeContext, trace *Trace) (State, error) {
	if rtc == nil {
		rtc = NewRuntimeContext(c.config.MaxSteps)
	}
	state := input
	current, err := c.resolveNext(START, Command{})
	if err != nil {
		return nil, err
	}

	for current != END {
		rtc.RemainingSteps--
		if rtc.RemainingSteps < 0 {
			return nil, mofaerr.NewTimeout(0, "recursion limit reached")
		}

		next, newState, err := c.step(ctx, current, state, rtc, trace)
		if err != nil {
			return nil, err
		}
		state = newState
		current = next
	}
	return state, nil
}

// step executes node current once (fanning out in parallel if its
// edge is EdgeParallel) and returns the next node ID and resulting
// state.
func (c *Compiled) step(ctx context.Context, current string, state State, rtc *RuntimeContext, trace *Trace) (string, State, error) {
	edge := c.edges[current]
	if edge.Kind == EdgeParallel {
		return c.stepParallel(ctx, current, edge, state, rtc, trace)
	}

	var order int
	if trace != nil {
		order = trace.StartNode(current, state)
	}
	cmd, err := c.runNode(ctx, current, state, rtc, nil)
	if err != nil {
		if trace != nil {
			trace.CompleteNode(order, nil, NodeStatusFailed, err.Error())
		}
		if fb, ok := c.fallback[current]; ok {
			return fb, state, nil
		}
		return "", nil, err
	}
	newState, err := c.applyUpdates(state, cmd.Updates)
	if err != nil {
		if trace != nil {
			trace.CompleteNode(order, nil, NodeStatusFailed, err.Error())
		}
		return "", nil, err
	}
	if trace != nil {
		trace.CompleteNode(order, newState, NodeStatusSuccess, "")
	}
	next, err := c.resolveNext(current, cmd)
	if err != nil {
		return "", nil, err
	}
	return next, newState, nil
}

// stepParallel runs node current, then fans the children of its
// parallel edge out concurrently (at most MaxParallelism at once when
// that is positive), awaits all, and merges their updates
// deterministically by declared target order.
func (c *Compiled) stepParallel(ctx context.Context, current string, edge Edge, state State, rtc *RuntimeContext, trace *Trace) (string, State, error) {
	cmd, err := c.runNode(ctx, current, state, rtc, nil)
	if err != nil {
		return "", nil, err
	}
	state, err = c.applyUpdates(state, cmd.Updates)
	if err != nil {
		return "", nil, err
	}
	targets := edge.ParallelTargets
	updates := make([]map[string]any, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	if c.config.MaxParallelism > 0 {
		g.SetLimit(c.config.MaxParallelism)
	}
	var mu sync.Mutex
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			var order int
			if trace != nil {
				mu.Lock()
				order = trace.StartNode(target, state)
				mu.Unlock()
			}
			cmd, err := c.runNode(gctx, target, state, rtc, nil)
			if err != nil {
				if trace != nil {
					mu.Lock()
					trace.CompleteNode(order, nil, NodeStatusFailed, err.Error())
					mu.Unlock()
				}
				return err
			}
			if trace != nil {
				mu.Lock()
				trace.CompleteNode(order, State(cmd.Updates), NodeStatusSuccess, "")
				mu.Unlock()
			}
			updates[i] = cmd.Updates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", nil, err
	}

	merged, err := c.mergeParallel(state, updates)
	if err != nil {
		return "", nil, err
	}
	// Once every child completes, execution proceeds to END; the
	// children's own out-edges are not followed.
	next := END
	return next, merged, nil
}

// Step executes exactly one node from input and reports whether
// execution is complete, for interactive/debug use.
func (c *Compiled) Step(ctx context.Context, current string, input State, rtc *RuntimeContext) (StepResult, error) {
	if rtc == nil {
		rtc = NewRuntimeContext(c.config.MaxSteps)
	}
	if current == "" || current == START {
		next, err := c.resolveNext(START, Command{})
		if err != nil {
			return StepResult{}, err
		}
		current = next
	}
	next, newState, err := c.step(ctx, current, input, rtc, nil)
	if err != nil {
		return StepResult{}, err
	}
	return StepResult{
		State:      newState,
		NodeID:     current,
		IsComplete: next == END,
		NextNode:   next,
	}, nil
}
