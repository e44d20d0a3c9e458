package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/mofa-run/mofa/pkg/agent/runner"
)

// StreamChunk is one incremental piece of a streamed chat completion
//.
type StreamChunk struct {
	Content      string
	FinishReason string
}

// StreamingChatProvider is the optional streaming half of the LLM
// provider contract. A provider that only implements
// runner.ChatProvider still works with ChatGenerator; GenerateStreaming
// then emits the whole answer as a single chunk once it is ready.
type StreamingChatProvider interface {
	ChatStream(ctx context.Context, req runner.ChatRequest) (<-chan StreamChunk, error)
}

// ChatGenerator implements Generator on top of an agent-core
// runner.ChatProvider, the same minimal LLM contract the tool loop
// uses (C5) — the RAG pipeline's generation stage is just a
// single-turn chat call whose one user turn carries the retrieved
// documents and the question; SystemPrompt is left empty.
type ChatGenerator struct {
	Provider runner.ChatProvider
	// Streaming, if set, is used by GenerateStreaming instead of the
	// fall-back single-chunk behavior.
	Streaming StreamingChatProvider
	// PromptTemplate renders that user turn given the query and
	// retrieved docs. A nil template uses buildDefaultPrompt.
	PromptTemplate func(query string, docs []Document) string
}

func buildDefaultPrompt(query string, docs []Document) string {
	var b strings.Builder
	b.WriteString("Answer the question using only the context below. If the context is insufficient, say so.\n\n")
	for i, d := range docs {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, d.Content)
	}
	fmt.Fprintf(&b, "Question: %s\n", query)
	return b.String()
}

func (g *ChatGenerator) prompt(query string, docs []Document) string {
	if g.PromptTemplate != nil {
		return g.PromptTemplate(query, docs)
	}
	return buildDefaultPrompt(query, docs)
}

func (g *ChatGenerator) Generate(ctx context.Context, query string, docs []Document) (string, error) {
	resp, err := g.Provider.Chat(ctx, runner.ChatRequest{
		History: []runner.ChatTurn{{Role: "user", Content: g.prompt(query, docs)}},
	})
	if err != nil {
		return "", fmt.Errorf("rag: chat generate: %w", err)
	}
	return resp.Content, nil
}

func (g *ChatGenerator) GenerateStreaming(ctx context.Context, query string, docs []Document) (<-chan string, error) {
	out := make(chan string)

	if g.Streaming != nil {
		chunks, err := g.Streaming.ChatStream(ctx, runner.ChatRequest{
			History: []runner.ChatTurn{{Role: "user", Content: g.prompt(query, docs)}},
		})
		if err != nil {
			return nil, fmt.Errorf("rag: chat stream: %w", err)
		}
		go func() {
			defer close(out)
			for c := range chunks {
				select {
				case out <- c.Content:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out, nil
	}

	answer, err := g.Generate(ctx, query, docs)
	if err != nil {
		return nil, err
	}
	go func() {
		defer close(out)
		select {
		case out <- answer:
		case <-ctx.Done():
		}
	}()
	return out, nil
}

var _ Generator = (*ChatGenerator)(nil)
