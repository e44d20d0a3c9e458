package runner

import (
	"context"
	"fmt"

	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// ChatTurn is one entry in the conversation history the loop builds up.
type ChatTurn struct {
	Role       string // "system" | "user" | "assistant" | "tool"
	Content    string
	ToolCalls  []ToolCall // populated on an assistant turn that calls tools
	ToolCallID string     // populated on a tool-result turn
}

// ToolCall is one function call the LLM asked for.
type ToolCall struct {
	ID            string
	Name          string
	ArgumentsJSON string
}

// ChatRequest is what the loop hands to the LLM provider each iteration.
type ChatRequest struct {
	SystemPrompt string
	History      []ChatTurn
	Tools        []ToolDescriptor
}

// ChatResponse is the provider's reply: either plain content, or one or
// more tool calls to execute before the loop continues.
type ChatResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// ChatProvider is the minimal LLM contract the tool loop needs.
type ChatProvider interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// LoopConfig bounds one tool-loop run.
type LoopConfig struct {
	MaxToolIterations int
}

// DefaultLoopConfig matches the original's AgentLoopConfig default.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{MaxToolIterations: 10}
}

// ToolLoop runs the 5-step tool-invocation loop.
type ToolLoop struct {
	provider ChatProvider
	tools    *ToolRegistry
	config   LoopConfig
}

// NewToolLoop builds a loop over provider and tools.
func NewToolLoop(provider ChatProvider, tools *ToolRegistry, config LoopConfig) *ToolLoop {
	if config.MaxToolIterations <= 0 {
		config.MaxToolIterations = DefaultLoopConfig().MaxToolIterations
	}
	return &ToolLoop{provider: provider, tools: tools, config: config}
}

// Run executes the loop starting from history, appending the current
// user message. It returns the final assistant content and the full
// updated history (including every tool round), or an Interrupted
// error if actx's interruption flag is raised mid-loop.
//
// On interruption, the in-flight iteration's assistant tool-call turn
// is dropped if none of its tools has run yet. Once a tool has run,
// that turn and every tool result produced so far stay in the returned
// history, as do all turns of completed iterations, so a later call
// can resume from there.
func (l *ToolLoop) Run(ctx context.Context, actx *Context, systemPrompt string, history []ChatTurn, userMessage string) (string, []ChatTurn, error) {
	committed := append([]ChatTurn{}, history...)
	committed = append(committed, ChatTurn{Role: "user", Content: userMessage})

	for iteration := 0; iteration < l.config.MaxToolIterations; iteration++ {
		if actx.Interrupted() {
			return "", committed, mofaerr.New(mofaerr.Interrupted, "tool loop interrupted before iteration")
		}

		req := ChatRequest{SystemPrompt: systemPrompt, History: committed, Tools: l.tools.Descriptors()}
		resp, err := l.provider.Chat(ctx, req)
		if err != nil {
			return "", committed, mofaerr.Wrap(mofaerr.ExecutionFailed, "chat completion", err)
		}

		if len(resp.ToolCalls) == 0 {
			return resp.Content, committed, nil
		}

		// The assistant's tool-call turn stays uncommitted until the
		// first tool of this iteration has run, so an interruption
		// before that drops it. Each tool result, once executed, is
		// committed together with that turn and is never unwound.
		pending := append([]ChatTurn{}, committed...)
		pending = append(pending, ChatTurn{Role: "assistant", Content: resp.Content, ToolCalls: resp.ToolCalls})

		for _, call := range resp.ToolCalls {
			if actx.Interrupted() {
				return "", committed, mofaerr.New(mofaerr.Interrupted, "tool loop interrupted before tool call")
			}
			result := l.invokeTool(actx, call)
			pending = append(pending, ChatTurn{Role: "tool", Content: toolResultText(result), ToolCallID: call.ID})
			committed = pending // tool results already executed are never undone
		}
	}

	actx.Emit("tool_loop.max_iterations_exceeded", l.config.MaxToolIterations)
	return "I've completed processing but hit the maximum iteration limit.", committed, nil
}

func (l *ToolLoop) invokeTool(actx *Context, call ToolCall) ToolResult {
	t, ok := l.tools.Get(call.Name)
	if !ok {
		return ToolResult{Success: false, Error: mofaerr.New(mofaerr.ToolNotFound, fmt.Sprintf("unknown tool %q", call.Name)).Error()}
	}
	result, err := t.Invoke(actx, call.ArgumentsJSON)
	if err != nil {
		return ToolResult{Success: false, Error: err.Error()}
	}
	return result
}

func toolResultText(r ToolResult) string {
	if r.Success {
		return r.Output
	}
	return "Error: " + r.Error
}
