package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mofa-run/mofa/pkg/agent/runner"
)

type fakeRetriever struct {
	docs []Document
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, topK int) ([]Document, error) {
	return f.docs, nil
}

type fakeChatProvider struct {
	content string
}

func (f *fakeChatProvider) Chat(ctx context.Context, req runner.ChatRequest) (runner.ChatResponse, error) {
	return runner.ChatResponse{Content: f.content}, nil
}

func TestPipelineRunRetrievesRerankesAndGenerates(t *testing.T) {
	retriever := &fakeRetriever{docs: []Document{
		{ID: "a", Content: "alpha", Score: 0.9},
		{ID: "b", Content: "beta", Score: 0.1},
	}}
	generator := &ChatGenerator{Provider: &fakeChatProvider{content: "the answer"}}

	p := &Pipeline{
		Retriever: retriever,
		Reranker:  &ScoreReranker{MinScore: 0.5},
		Generator: generator,
	}

	result, err := p.Run(context.Background(), "what is alpha?", 2)
	require.NoError(t, err)
	assert.Equal(t, "the answer", result.Answer)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "a", result.Documents[0].ID)
}

func TestPipelineRunStreamingYieldsFallbackSingleChunk(t *testing.T) {
	retriever := &fakeRetriever{docs: []Document{{ID: "a", Content: "alpha", Score: 1}}}
	generator := &ChatGenerator{Provider: &fakeChatProvider{content: "streamed answer"}}

	p := &Pipeline{Retriever: retriever, Generator: generator}

	docs, stream, err := p.RunStreaming(context.Background(), "q", 1)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	var got string
	for chunk := range stream {
		got += chunk
	}
	assert.Equal(t, "streamed answer", got)
}

func TestScoreRerankerDropsAndTruncates(t *testing.T) {
	r := &ScoreReranker{MinScore: 0.3, TopN: 1}
	docs := []Document{
		{ID: "low", Score: 0.1},
		{ID: "mid", Score: 0.5},
		{ID: "high", Score: 0.9},
	}
	out, err := r.Rerank(context.Background(), "q", docs)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "high", out[0].ID)
}
