package rag

import (
	"context"
	"sort"
)

// ScoreReranker reorders documents by their retrieval score, dropping
// anything below MinScore and truncating to TopN. It needs no model
// call, making it a reasonable default when no cross-encoder reranker
// is configured.
type ScoreReranker struct {
	MinScore float32
	TopN     int
}

func (r *ScoreReranker) Rerank(ctx context.Context, query string, docs []Document) ([]Document, error) {
	kept := make([]Document, 0, len(docs))
	for _, d := range docs {
		if d.Score >= r.MinScore {
			kept = append(kept, d)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	if r.TopN > 0 && len(kept) > r.TopN {
		kept = kept[:r.TopN]
	}
	return kept, nil
}

var _ Reranker = (*ScoreReranker)(nil)
