package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider returns responses in order, one per Chat call.
type scriptedProvider struct {
	responses []ChatResponse
	calls     int
}

func (p *scriptedProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if p.calls >= len(p.responses) {
		return ChatResponse{Content: "out of script"}, nil
	}
	r := p.responses[p.calls]
	p.calls++
	return r, nil
}

type echoTool struct{}

func (echoTool) Descriptor() ToolDescriptor {
	return ToolDescriptor{Name: "echo", Description: "echoes its argument"}
}

func (echoTool) Invoke(actx *Context, argumentsJSON string) (ToolResult, error) {
	return ToolResult{Success: true, Output: "echo:" + argumentsJSON}, nil
}

func TestToolLoopReturnsContentWhenNoToolCalls(t *testing.T) {
	// Scenario S1: tool loop terminates when the LLM stops requesting tools.
	provider := &scriptedProvider{responses: []ChatResponse{{Content: "final answer"}}}
	loop := NewToolLoop(provider, NewToolRegistry(echoTool{}), DefaultLoopConfig())
	actx := NewContext(nil, nil)

	out, history, err := loop.Run(context.Background(), actx, "sys", nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, "final answer", out)
	assert.Equal(t, "user", history[0].Role)
}

func TestToolLoopExecutesToolAndContinues(t *testing.T) {
	provider := &scriptedProvider{responses: []ChatResponse{
		{ToolCalls: []ToolCall{{ID: "1", Name: "echo", ArgumentsJSON: `"hi"`}}},
		{Content: "done"},
	}}
	loop := NewToolLoop(provider, NewToolRegistry(echoTool{}), DefaultLoopConfig())
	actx := NewContext(nil, nil)

	out, history, err := loop.Run(context.Background(), actx, "sys", nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, "done", out)

	var sawToolResult bool
	for _, turn := range history {
		if turn.Role == "tool" && turn.Content == `echo:"hi"` {
			sawToolResult = true
		}
	}
	assert.True(t, sawToolResult)
}

func TestToolLoopUnknownToolReturnsErrorResultNotPanic(t *testing.T) {
	provider := &scriptedProvider{responses: []ChatResponse{
		{ToolCalls: []ToolCall{{ID: "1", Name: "ghost", ArgumentsJSON: "{}"}}},
		{Content: "recovered"},
	}}
	loop := NewToolLoop(provider, NewToolRegistry(echoTool{}), DefaultLoopConfig())
	actx := NewContext(nil, nil)

	out, _, err := loop.Run(context.Background(), actx, "sys", nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
}

// foreverToolCalls always asks for another tool call, to exercise
// max_tool_iterations enforcement.
type foreverToolCallsProvider struct{}

func (foreverToolCallsProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	return ChatResponse{ToolCalls: []ToolCall{{ID: "x", Name: "echo", ArgumentsJSON: "{}"}}}, nil
}

func TestToolLoopEnforcesMaxIterations(t *testing.T) {
	// Property 9: tool-loop termination for any finite max_tool_iterations.
	loop := NewToolLoop(foreverToolCallsProvider{}, NewToolRegistry(echoTool{}), LoopConfig{MaxToolIterations: 3})
	actx := NewContext(nil, nil)

	var emitted []string
	actx.emitter = EventEmitterFunc(func(name string, _ any) { emitted = append(emitted, name) })

	out, _, err := loop.Run(context.Background(), actx, "sys", nil, "go")
	require.NoError(t, err, "overflow must return a controlled message, not an error")
	assert.Contains(t, out, "maximum iteration limit")
	assert.Contains(t, emitted, "tool_loop.max_iterations_exceeded")
}

func TestToolLoopInterruptionKeepsExecutedTools(t *testing.T) {
	loop := NewToolLoop(&scriptedProvider{responses: []ChatResponse{
		{ToolCalls: []ToolCall{
			{ID: "1", Name: "echo", ArgumentsJSON: `"first"`},
			{ID: "2", Name: "interrupt", ArgumentsJSON: `"second"`},
		}},
	}}, NewToolRegistry(echoTool{}, interruptingTool{}), DefaultLoopConfig())
	actx := NewContext(nil, nil)

	_, history, err := loop.Run(context.Background(), actx, "sys", nil, "go")
	assert.Error(t, err)

	var sawFirstToolResult bool
	for _, turn := range history {
		if turn.Role == "tool" && turn.Content == `echo:"first"` {
			sawFirstToolResult = true
		}
	}
	assert.True(t, sawFirstToolResult, "tools already executed are not undone")
}

// interruptingTool raises the context's interruption flag as a side
// effect, simulating an external signal arriving mid-iteration.
type interruptingTool struct{}

func (interruptingTool) Descriptor() ToolDescriptor {
	return ToolDescriptor{Name: "interrupt"}
}

func (interruptingTool) Invoke(actx *Context, argumentsJSON string) (ToolResult, error) {
	actx.Interrupt()
	return ToolResult{Success: true, Output: "interrupted"}, nil
}
