// Package embedder computes text embeddings for the RAG pipeline
//. A single HTTP-based
// implementation is provided, targeting Ollama's local embedding API,
// since it requires no API key and pairs naturally with the
// zero-config chromem vector store.
package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mofa-run/mofa/pkg/mofaerr"
)

// Embedder turns text into dense vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// OllamaEmbedder calls a local or remote Ollama server's /api/embed
// endpoint, one request per batch.
type OllamaEmbedder struct {
	baseURL string
	model   string
	dims    int
	client  *http.Client
}

// OllamaConfig configures an OllamaEmbedder.
type OllamaConfig struct {
	BaseURL string // default http://localhost:11434
	Model   string // e.g. "nomic-embed-text"
	// Dims is the model's known embedding width, used only to
	// validate responses; Ollama does not report it itself.
	Dims    int
	Timeout time.Duration
}

// NewOllamaEmbedder constructs an OllamaEmbedder with sane defaults.
func NewOllamaEmbedder(cfg OllamaConfig) *OllamaEmbedder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "nomic-embed-text"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &OllamaEmbedder{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		dims:    cfg.Dims,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
	Error      string      `json:"error"`
}

func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("embedder: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embedder: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, mofaerr.New(mofaerr.ResourceUnavailable, fmt.Sprintf("embedder: ollama request failed: %v", err))
	}
	defer resp.Body.Close()

	var out ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("embedder: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := out.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, mofaerr.New(mofaerr.ResourceUnavailable, "embedder: ollama error: "+msg)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedder: expected %d embeddings, got %d", len(texts), len(out.Embeddings))
	}
	if e.dims > 0 {
		for i, v := range out.Embeddings {
			if len(v) != e.dims {
				return nil, fmt.Errorf("embedder: embedding %d has %d dimensions, expected %d", i, len(v), e.dims)
			}
		}
	}
	return out.Embeddings, nil
}

func (e *OllamaEmbedder) Dimensions() int { return e.dims }

var _ Embedder = (*OllamaEmbedder)(nil)
