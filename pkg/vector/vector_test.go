package vector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ChromemStore {
	t.Helper()
	s, err := NewChromemStore(ChromemConfig{Name: "test-" + t.Name()})
	require.NoError(t, err)
	return s
}

func TestChromemStoreUpsertAndSearch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.UpsertBatch(ctx, []Chunk{
		{ID: "a", Embedding: []float32{1, 0, 0}, Content: "alpha", Metadata: map[string]any{"tag": "x"}},
		{ID: "b", Embedding: []float32{0, 1, 0}, Content: "beta"},
	}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	results, err := s.Search(ctx, []float32{1, 0, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "x", results[0].Metadata["tag"])
}

func TestChromemStoreSearchRespectsThreshold(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.UpsertBatch(ctx, []Chunk{
		{ID: "a", Embedding: []float32{1, 0, 0}, Content: "alpha"},
		{ID: "b", Embedding: []float32{-1, 0, 0}, Content: "opposite"},
	}))

	high := float32(0.9)
	results, err := s.Search(ctx, []float32{1, 0, 0}, 2, &high)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
}

func TestChromemStoreDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Upsert(ctx, Chunk{ID: "a", Embedding: []float32{1, 0, 0}}))
	require.NoError(t, s.Upsert(ctx, Chunk{ID: "b", Embedding: []float32{0, 1, 0}}))

	require.NoError(t, s.Delete(ctx, "a"))
	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, s.Clear(ctx))
	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestChromemStoreSimilarityMetric(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, Cosine, s.SimilarityMetric())
}
