package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mofa-run/mofa/pkg/agent/runner"
)

// fakeProvider is a minimal Provider double — the package's own tests
// stand in for a vendor SDK, per its contract-only scope.
type fakeProvider struct {
	chatResp ChatResponse
	chatErr  error
	chunks   []Chunk
}

func (f *fakeProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	return f.chatResp, f.chatErr
}

func (f *fakeProvider) ChatStream(ctx context.Context, req ChatRequest) (<-chan Chunk, error) {
	out := make(chan Chunk, len(f.chunks))
	for _, c := range f.chunks {
		out <- c
	}
	close(out)
	return out, nil
}

func (f *fakeProvider) Embedding(ctx context.Context, req EmbeddingRequest) (EmbeddingResponse, error) {
	data := make([]EmbeddingData, len(req.Input))
	for i := range req.Input {
		data[i] = EmbeddingData{Index: i, Embedding: []float32{1, 2, 3}}
	}
	return EmbeddingResponse{Data: data}, nil
}

var _ Provider = (*fakeProvider)(nil)

func TestRunnerAdapterChatMapsFirstChoice(t *testing.T) {
	provider := &fakeProvider{chatResp: ChatResponse{Choices: []Choice{
		{Message: Message{Content: "hi there"}},
	}}}
	adapter := &RunnerAdapter{Provider: provider, Model: "test-model"}

	resp, err := adapter.Chat(context.Background(), runner.ChatRequest{
		SystemPrompt: "be nice",
		History:      []runner.ChatTurn{{Role: "user", Content: "hello"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Content)
}

func TestRunnerAdapterChatMapsToolCalls(t *testing.T) {
	provider := &fakeProvider{chatResp: ChatResponse{Choices: []Choice{
		{Message: Message{ToolCalls: []ToolCall{{ID: "1", Name: "search", ArgumentsJSON: `{"q":"x"}`}}}},
	}}}
	adapter := &RunnerAdapter{Provider: provider}

	resp, err := adapter.Chat(context.Background(), runner.ChatRequest{})
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "search", resp.ToolCalls[0].Name)
}

func TestRunnerAdapterChatErrorsOnNoChoices(t *testing.T) {
	adapter := &RunnerAdapter{Provider: &fakeProvider{}}
	_, err := adapter.Chat(context.Background(), runner.ChatRequest{})
	assert.Error(t, err)
}

func TestRunnerAdapterChatStreamYieldsChunks(t *testing.T) {
	provider := &fakeProvider{chunks: []Chunk{
		{DeltaContent: "a"},
		{DeltaContent: "b", FinishReason: FinishStop},
	}}
	adapter := &RunnerAdapter{Provider: provider}

	stream, err := adapter.ChatStream(context.Background(), runner.ChatRequest{})
	require.NoError(t, err)

	var got string
	for c := range stream {
		got += c.Content
	}
	assert.Equal(t, "ab", got)
}
