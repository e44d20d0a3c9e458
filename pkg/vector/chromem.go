package vector

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// ChromemStore implements Store on top of chromem-go, an embedded,
// pure-Go vector database. It requires no external service, making it
// the default backend for single-process deployments; vectors are
// supplied pre-computed by an Embedder, so the collection's embedding
// function is never actually invoked by chromem itself.
//
// Adapted from hector's pkg/vector.ChromemProvider: collapsed from a
// multi-collection provider keyed by collection name to a single Store
// per collection (this package's contract is scoped that way), and
// trimmed to cosine similarity only — chromem-go does not expose a
// pluggable metric, so SimilarityMetric always reports Cosine.
type ChromemStore struct {
	mu          sync.Mutex
	db          *chromem.DB
	collection  *chromem.Collection
	name        string
	persistPath string
}

// ChromemConfig configures a ChromemStore.
type ChromemConfig struct {
	// Name is the chromem collection name.
	Name string
	// PersistPath, if set, persists the collection to this gob file
	// after every mutation and reloads it on NewChromemStore.
	PersistPath string
}

func noopEmbed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("vector: embedding func invoked; chromem store expects pre-computed vectors")
}

// NewChromemStore opens (or creates) a chromem-go collection.
func NewChromemStore(cfg ChromemConfig) (*ChromemStore, error) {
	if cfg.Name == "" {
		return nil, mofaerr.New(mofaerr.ValidationFailed, "vector: collection name required")
	}

	var db *chromem.DB
	if cfg.PersistPath != "" {
		if _, err := os.Stat(cfg.PersistPath); err == nil {
			db = chromem.NewDB()
			//nolint:staticcheck // Import reads the file written by Export in persist
			if err := db.Import(cfg.PersistPath, ""); err != nil {
				return nil, fmt.Errorf("vector: load persisted db: %w", err)
			}
		} else {
			db = chromem.NewDB()
		}
	} else {
		db = chromem.NewDB()
	}

	col, err := db.GetOrCreateCollection(cfg.Name, nil, noopEmbed)
	if err != nil {
		return nil, fmt.Errorf("vector: open collection %q: %w", cfg.Name, err)
	}

	return &ChromemStore{db: db, collection: col, name: cfg.Name, persistPath: cfg.PersistPath}, nil
}

func toStringMap(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func (s *ChromemStore) toChunk(c Chunk) chromem.Document {
	return chromem.Document{
		ID:        c.ID,
		Content:   c.Content,
		Metadata:  toStringMap(c.Metadata),
		Embedding: c.Embedding,
	}
}

func (s *ChromemStore) Upsert(ctx context.Context, chunk Chunk) error {
	return s.UpsertBatch(ctx, []Chunk{chunk})
}

func (s *ChromemStore) UpsertBatch(ctx context.Context, chunks []Chunk) error {
	docs := make([]chromem.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = s.toChunk(c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("vector: upsert batch: %w", err)
	}
	return s.persist()
}

func (s *ChromemStore) Search(ctx context.Context, embedding []float32, k int, threshold *float32) ([]Result, error) {
	if k <= 0 {
		k = 1
	}
	// chromem errors if k exceeds the collection size; clamp instead
	// of surfacing that as a caller-visible failure.
	if n := s.collection.Count(); k > n {
		k = n
	}
	if k == 0 {
		return nil, nil
	}

	hits, err := s.collection.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector: search: %w", err)
	}

	out := make([]Result, 0, len(hits))
	for _, h := range hits {
		if threshold != nil && h.Similarity < *threshold {
			continue
		}
		meta := make(map[string]any, len(h.Metadata))
		for k, v := range h.Metadata {
			meta[k] = v
		}
		out = append(out, Result{ID: h.ID, Score: h.Similarity, Content: h.Content, Metadata: meta})
	}
	return out, nil
}

func (s *ChromemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.collection.Delete(ctx, nil, nil, id); err != nil {
		return fmt.Errorf("vector: delete %q: %w", id, err)
	}
	return s.persist()
}

func (s *ChromemStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("vector: clear: %w", err)
	}
	col, err := s.db.GetOrCreateCollection(s.name, nil, noopEmbed)
	if err != nil {
		return fmt.Errorf("vector: recreate collection after clear: %w", err)
	}
	s.collection = col
	return s.persist()
}

func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}

func (s *ChromemStore) SimilarityMetric() Metric { return Cosine }

func (s *ChromemStore) persist() error {
	if s.persistPath == "" {
		return nil
	}
	//nolint:staticcheck // Export is chromem-go's documented persistence API despite the deprecation note
	if err := s.db.Export(s.persistPath, false, ""); err != nil {
		return fmt.Errorf("vector: persist: %w", err)
	}
	return nil
}

var _ Store = (*ChromemStore)(nil)
