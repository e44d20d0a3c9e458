package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mofa-run/mofa/pkg/agent/runner"
	"github.com/mofa-run/mofa/pkg/rag"
)

// RunnerAdapter wraps a Provider as a runner.ChatProvider (C5's tool
// loop contract) and a rag.StreamingChatProvider-shaped ChatStream
// method (pkg/rag only needs the method, not this package, to satisfy
// its own local interface — see pkg/rag/generator.go).
type RunnerAdapter struct {
	Provider Provider
	Model    string
}

func toProviderMessages(history []runner.ChatTurn, systemPrompt string) []Message {
	msgs := make([]Message, 0, len(history)+1)
	if systemPrompt != "" {
		msgs = append(msgs, Message{Role: RoleSystem, Content: systemPrompt})
	}
	for _, t := range history {
		m := Message{Role: Role(t.Role), Content: t.Content, ToolCallID: t.ToolCallID}
		for _, tc := range t.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, ToolCall{ID: tc.ID, Name: tc.Name, ArgumentsJSON: tc.ArgumentsJSON})
		}
		msgs = append(msgs, m)
	}
	return msgs
}

func toProviderTools(descs []runner.ToolDescriptor) []ToolSpec {
	specs := make([]ToolSpec, len(descs))
	for i, d := range descs {
		schema, _ := json.Marshal(d.ArgumentsSchema)
		specs[i] = ToolSpec{Name: d.Name, Description: d.Description, ParamsJSON: string(schema)}
	}
	return specs
}

// Chat implements runner.ChatProvider.
func (a *RunnerAdapter) Chat(ctx context.Context, req runner.ChatRequest) (runner.ChatResponse, error) {
	resp, err := a.Provider.Chat(ctx, ChatRequest{
		Model:    a.Model,
		Messages: toProviderMessages(req.History, req.SystemPrompt),
		Tools:    toProviderTools(req.Tools),
	})
	if err != nil {
		return runner.ChatResponse{}, err
	}
	if len(resp.Choices) == 0 {
		return runner.ChatResponse{}, fmt.Errorf("llm: provider returned no choices")
	}
	choice := resp.Choices[0]
	out := runner.ChatResponse{Content: choice.Message.Content}
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, runner.ToolCall{ID: tc.ID, Name: tc.Name, ArgumentsJSON: tc.ArgumentsJSON})
	}
	return out, nil
}

// ChatStream implements rag.StreamingChatProvider, the optional
// streaming seam ChatGenerator.GenerateStreaming prefers over its
// single-chunk fallback.
func (a *RunnerAdapter) ChatStream(ctx context.Context, req runner.ChatRequest) (<-chan rag.StreamChunk, error) {
	chunks, err := a.Provider.ChatStream(ctx, ChatRequest{
		Model:    a.Model,
		Messages: toProviderMessages(req.History, req.SystemPrompt),
	})
	if err != nil {
		return nil, err
	}
	out := make(chan rag.StreamChunk)
	go func() {
		defer close(out)
		for c := range chunks {
			select {
			case out <- rag.StreamChunk{Content: c.DeltaContent, FinishReason: string(c.FinishReason)}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

var _ runner.ChatProvider = (*RunnerAdapter)(nil)
var _ rag.StreamingChatProvider = (*RunnerAdapter)(nil)
