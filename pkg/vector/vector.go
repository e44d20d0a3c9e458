// Package vector defines the vector store contract for the RAG
// pipeline: upsert, batched upsert, similarity
// search with an optional score threshold, delete, clear, count, and
// a declared similarity metric. IDs are opaque strings; a backend
// that only supports numeric IDs internally must still preserve the
// caller's original string id in the returned Result's metadata.
package vector

import "context"

// Metric names the distance function a Store computes similarity
// with.
type Metric string

const (
	Cosine     Metric = "cosine"
	Euclidean  Metric = "euclidean"
	DotProduct Metric = "dot_product"
)

// Chunk is one vector record to upsert: an opaque ID, its embedding,
// the source text it was computed from, and arbitrary metadata.
type Chunk struct {
	ID        string
	Embedding []float32
	Content   string
	Metadata  map[string]any
}

// Result is one search hit: the stored chunk's content/metadata plus
// its similarity score against the query embedding.
type Result struct {
	ID       string
	Score    float32
	Content  string
	Metadata map[string]any
}

// Store is the vector store contract every RAG backend implements
//. A Store is scoped to one logical collection;
// callers that need several collections hold one Store per
// collection.
type Store interface {
	Upsert(ctx context.Context, chunk Chunk) error
	UpsertBatch(ctx context.Context, chunks []Chunk) error

	// Search returns the top k results by similarity. threshold, if
	// non-nil, drops results whose score falls below it.
	Search(ctx context.Context, embedding []float32, k int, threshold *float32) ([]Result, error)

	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)

	SimilarityMetric() Metric
}
