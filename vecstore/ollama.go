package vecstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"
)

const (
	defaultOllamaAddr  = "http://localhost:11434"
	defaultOllamaModel = "nomic-embed-text"
	ollamaTimeout      = 30 * time.Second
)

// OllamaEmbedder embeds text through a local Ollama instance. It is the
// last-resort embedding provider: no API key, works offline.
type OllamaEmbedder struct {
	addr   string
	model  string
	client *http.Client
}

type OllamaConfig struct {
	Addr  string
	Model string
}

func NewOllamaEmbedder(cfg OllamaConfig) *OllamaEmbedder {
	if cfg.Addr == "" {
		cfg.Addr = defaultOllamaAddr
	}
	if cfg.Model == "" {
		cfg.Model = defaultOllamaModel
	}

	return &OllamaEmbedder{
		addr:   cfg.Addr,
		model:  cfg.Model,
		client: &http.Client{Timeout: ollamaTimeout},
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaResponse struct {
	Embedding []float64 `json:"embedding"`
}

func (o *OllamaEmbedder) EmbedQuery(ctx context.Context, text string) (embeddings.Embedding, error) {
	body, err := json.Marshal(ollamaRequest{Model: o.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.addr+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama returned %s: %s", resp.Status, raw)
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}

	vec := make([]float32, len(out.Embedding))
	for i, v := range out.Embedding {
		vec[i] = float32(v)
	}

	return embeddings.NewEmbeddingFromFloat32(vec), nil
}

// EmbedDocuments embeds each text with its own request. Ollama has no batch
// endpoint for embeddings.
func (o *OllamaEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([]embeddings.Embedding, error) {
	out := make([]embeddings.Embedding, 0, len(texts))
	for _, t := range texts {
		emb, err := o.EmbedQuery(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, emb)
	}

	return out, nil
}
