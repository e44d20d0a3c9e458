// Package rag implements the retrieve → rerank → generate pipeline.
// Each stage is a narrow interface; the
// Pipeline owns no IO of its own, the way hector's
// pkg/rag.DocumentStore composes a DataSource, ContentExtractor, and
// SearchEngine without owning any of them. A stage's error is returned
// wrapped with the stage name ("rag: retrieve: ..."): errors.Is and
// errors.As reach the stage's error, but the message is not its own.
package rag

import (
	"context"
	"fmt"

	"github.com/mofa-run/mofa/pkg/embedder"
	"github.com/mofa-run/mofa/pkg/vector"
)

// Document is one retrieved (and possibly reranked) passage.
type Document struct {
	ID       string
	Content  string
	Score    float32
	Metadata map[string]any
}

// Retriever finds candidate documents for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]Document, error)
}

// Reranker reorders (and may drop) a retriever's candidates.
type Reranker interface {
	Rerank(ctx context.Context, query string, docs []Document) ([]Document, error)
}

// Generator produces an answer given a query and its supporting
// documents.
type Generator interface {
	Generate(ctx context.Context, query string, docs []Document) (string, error)
	// GenerateStreaming yields the answer incrementally.
	GenerateStreaming(ctx context.Context, query string, docs []Document) (<-chan string, error)
}

// Pipeline wires the three stages together. Reranker is optional; a
// nil Reranker passes the retriever's output through unchanged.
type Pipeline struct {
	Retriever Retriever
	Reranker  Reranker
	Generator Generator
}

// Result is what Run returns: the documents used and the generated
// answer.
type Result struct {
	Documents []Document
	Answer    string
}

// Run executes retrieve → rerank → generate and returns the final
// answer plus the documents that grounded it.
func (p *Pipeline) Run(ctx context.Context, query string, topK int) (Result, error) {
	docs, err := p.retrieveAndRerank(ctx, query, topK)
	if err != nil {
		return Result{}, err
	}

	answer, err := p.Generator.Generate(ctx, query, docs)
	if err != nil {
		return Result{}, fmt.Errorf("rag: generate: %w", err)
	}
	return Result{Documents: docs, Answer: answer}, nil
}

// RunStreaming executes retrieve → rerank synchronously (so the
// caller can display sources immediately) and returns the generator's
// token stream for the caller to forward as it arrives. Backpressure:
// the channel is exactly the generator's own; this pipeline applies
// none of its own buffering.
func (p *Pipeline) RunStreaming(ctx context.Context, query string, topK int) ([]Document, <-chan string, error) {
	docs, err := p.retrieveAndRerank(ctx, query, topK)
	if err != nil {
		return nil, nil, err
	}

	stream, err := p.Generator.GenerateStreaming(ctx, query, docs)
	if err != nil {
		return nil, nil, fmt.Errorf("rag: generate_streaming: %w", err)
	}
	return docs, stream, nil
}

func (p *Pipeline) retrieveAndRerank(ctx context.Context, query string, topK int) ([]Document, error) {
	docs, err := p.Retriever.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("rag: retrieve: %w", err)
	}
	if p.Reranker == nil {
		return docs, nil
	}
	docs, err = p.Reranker.Rerank(ctx, query, docs)
	if err != nil {
		return nil, fmt.Errorf("rag: rerank: %w", err)
	}
	return docs, nil
}

// VectorRetriever is the standard Retriever: embed the query, search
// a vector.Store, map results to Documents.
type VectorRetriever struct {
	Store    vector.Store
	Embedder embedder.Embedder
	// Threshold, if non-zero, is passed through to the store search as
	// a minimum similarity score.
	Threshold float32
}

func (r *VectorRetriever) Retrieve(ctx context.Context, query string, topK int) ([]Document, error) {
	embeddings, err := r.Embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}

	var threshold *float32
	if r.Threshold != 0 {
		t := r.Threshold
		threshold = &t
	}

	results, err := r.Store.Search(ctx, embeddings[0], topK, threshold)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	docs := make([]Document, len(results))
	for i, res := range results {
		docs[i] = Document{ID: res.ID, Content: res.Content, Score: res.Score, Metadata: res.Metadata}
	}
	return docs, nil
}

var _ Retriever = (*VectorRetriever)(nil)
