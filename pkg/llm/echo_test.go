package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEchoProviderChatEchoesLastUserMessage(t *testing.T) {
	p := &EchoProvider{Prefix: "bot"}
	resp, err := p.Chat(context.Background(), ChatRequest{Messages: []Message{
		{Role: RoleSystem, Content: "be terse"},
		{Role: RoleUser, Content: "hello there"},
	}})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "bot: hello there", resp.Choices[0].Message.Content)
	assert.Equal(t, FinishStop, resp.Choices[0].FinishReason)
}

func TestEchoProviderChatStreamJoinsToFullReply(t *testing.T) {
	p := &EchoProvider{}
	chunks, err := p.ChatStream(context.Background(), ChatRequest{Messages: []Message{
		{Role: RoleUser, Content: "a b c"},
	}})
	require.NoError(t, err)

	var got string
	var sawFinish bool
	for c := range chunks {
		got += c.Content
		if c.FinishReason == FinishStop {
			sawFinish = true
		}
	}
	assert.Equal(t, "echo: a b c ", got)
	assert.True(t, sawFinish)
}

func TestEchoProviderEmbeddingIsDeterministic(t *testing.T) {
	p := &EchoProvider{}
	a, err := p.Embedding(context.Background(), EmbeddingRequest{Input: []string{"x"}})
	require.NoError(t, err)
	b, err := p.Embedding(context.Background(), EmbeddingRequest{Input: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, a.Data[0].Embedding, b.Data[0].Embedding)
}
