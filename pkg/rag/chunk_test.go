package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkReturnsSingleChunkWhenUnderSize(t *testing.T) {
	chunks := Chunk("short content", DefaultChunkConfig())
	require.Len(t, chunks, 1)
	assert.Equal(t, "short content", chunks[0].Content)
	assert.Equal(t, 1, chunks[0].Total)
}

func TestChunkSplitsLongContentWithOverlap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		b.WriteString("line of text for chunking\n")
	}
	content := b.String()

	chunks := Chunk(content, ChunkConfig{Size: 500, Overlap: 100})
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, len(chunks), c.Total)
	}

	// Reconstructed coverage must span the whole document
	assert.Equal(t, 0, chunks[0].StartByte)
	assert.Equal(t, len(content), chunks[len(chunks)-1].EndByte)
}

func TestChunkNormalizesInvalidOverlap(t *testing.T) {
	chunks := Chunk(strings.Repeat("x", 10000), ChunkConfig{Size: 1000, Overlap: 1000})
	require.NotEmpty(t, chunks)
}
