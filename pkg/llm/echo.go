package llm

import (
	"context"
	"fmt"
	"strings"
)

// EchoProvider is a deterministic, no-network Provider: it echoes the
// last user message back, prefixed with Prefix ("echo" when empty).
// It exists so
// cmd/mofa and package tests can exercise the tool loop and RAG
// generator end to end without a vendor SDK — implementing real
// language-model inference is explicitly out of scope.
type EchoProvider struct {
	Prefix string
}

func (e *EchoProvider) lastUserContent(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}

func (e *EchoProvider) reply(msgs []Message) string {
	prefix := e.Prefix
	if prefix == "" {
		prefix = "echo"
	}
	return fmt.Sprintf("%s: %s", prefix, e.lastUserContent(msgs))
}

// Chat implements Provider.
func (e *EchoProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	return ChatResponse{Choices: []Choice{{
		Message:      Message{Role: RoleAssistant, Content: e.reply(req.Messages)},
		FinishReason: FinishStop,
	}}}, nil
}

// ChatStream implements Provider by splitting the full reply into
// one chunk per word.
func (e *EchoProvider) ChatStream(ctx context.Context, req ChatRequest) (<-chan Chunk, error) {
	words := strings.Fields(e.reply(req.Messages))
	out := make(chan Chunk, len(words))
	for i, w := range words {
		c := Chunk{DeltaContent: w + " "}
		if i == len(words)-1 {
			c.FinishReason = FinishStop
		}
		out <- c
	}
	close(out)
	return out, nil
}

// Embedding implements Provider with a fixed-width hash-based vector,
// deterministic but not a real embedding model.
func (e *EchoProvider) Embedding(ctx context.Context, req EmbeddingRequest) (EmbeddingResponse, error) {
	data := make([]EmbeddingData, len(req.Input))
	for i, s := range req.Input {
		var sum float32
		for _, r := range s {
			sum += float32(r)
		}
		data[i] = EmbeddingData{Index: i, Embedding: []float32{sum, float32(len(s)), 1}}
	}
	return EmbeddingResponse{Data: data}, nil
}

var _ Provider = (*EchoProvider)(nil)
