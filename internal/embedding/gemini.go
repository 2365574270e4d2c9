// Package embedding converts job-posting text into fixed-length vectors at
// ingestion time, so that vector search operates on real embeddings rather
// than placeholders.
package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// defaultModel is the Gemini embedding model used for job postings.
const defaultModel = "text-embedding-004"

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// GeminiEmbedder implements Embedder over the Gemini embedding model.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGeminiEmbedder creates an embedder using the given API key.
func NewGeminiEmbedder(ctx context.Context, apiKey string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embedding: API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to create client: %w", err)
	}
	return &GeminiEmbedder{client: client, model: defaultModel}, nil
}

// Embed returns the embedding vector for text.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("embedding: empty text")
	}

	model := e.client.EmbeddingModel(e.model)
	resp, err := model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("embedding: request failed: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embedding: empty response")
	}
	return resp.Embedding.Values, nil
}

// Close releases the underlying client.
func (e *GeminiEmbedder) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}
