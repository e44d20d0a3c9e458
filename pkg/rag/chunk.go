package rag

import "strings"

// TextChunk is one piece of a source document, before embedding.
type TextChunk struct {
	Content    string
	Index      int
	Total      int
	StartByte  int
	EndByte    int
	SourceName string
}

// ChunkConfig controls how Chunk splits a document.
type ChunkConfig struct {
	// Size is the target chunk length in bytes.
	Size int
	// Overlap is how many trailing bytes of a chunk are repeated at
	// the start of the next one, so retrieval doesn't lose context at
	// a chunk boundary.
	Overlap int
}

// DefaultChunkConfig matches hector's own chunker defaults (1500-byte
// chunks, 20% overlap).
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{Size: 1500, Overlap: 300}
}

func (c ChunkConfig) normalized() ChunkConfig {
	if c.Size <= 0 {
		c.Size = 1500
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		c.Overlap = c.Size / 5
	}
	return c
}

// Chunk splits content into overlapping byte windows, breaking on a
// newline near the target size when one is available so chunks don't
// split mid-line.
//
// Adapted from hector's pkg/rag.OverlappingChunker: rather than that
// implementation's line-by-line accumulation with a backward overlap
// scan, this slides a byte window forward by (Size - Overlap) each
// step and snaps to the nearest preceding newline within a small
// margin — fewer bookkeeping variables, same boundary-overlap effect.
func Chunk(content string, cfg ChunkConfig) []TextChunk {
	cfg = cfg.normalized()
	if len(content) <= cfg.Size {
		return []TextChunk{{Content: content, Index: 0, Total: 1, StartByte: 0, EndByte: len(content)}}
	}

	const snapMargin = 80
	stride := cfg.Size - cfg.Overlap
	if stride <= 0 {
		stride = cfg.Size
	}

	var chunks []TextChunk
	start := 0
	for start < len(content) {
		end := start + cfg.Size
		if end >= len(content) {
			end = len(content)
		} else if nl := strings.LastIndexByte(content[end-snapMargin:end], '\n'); nl >= 0 {
			end = end - snapMargin + nl + 1
		}

		chunks = append(chunks, TextChunk{
			Content:   content[start:end],
			Index:     len(chunks),
			StartByte: start,
			EndByte:   end,
		})

		if end >= len(content) {
			break
		}
		start += stride
		if start >= end {
			start = end
		}
	}

	for i := range chunks {
		chunks[i].Total = len(chunks)
	}
	return chunks
}
