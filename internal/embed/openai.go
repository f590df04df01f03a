// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/samuel-halstead/research-assistant/pkg/types"
)

const (
	defaultEmbedModel = "text-embedding-3-small"
	defaultDimension  = 1536
)

// OpenAIEmbedder calls the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client    openai.Client
	model     string
	dimension int
}

// NewOpenAIEmbedder builds an embedder from config, applying defaults for
// the model name and vector dimension.
func NewOpenAIEmbedder(cfg types.EmbeddingConfig) *OpenAIEmbedder {
	model := cfg.Model
	if model == "" {
		model = defaultEmbedModel
	}
	dimension := cfg.Dimension
	if dimension <= 0 {
		dimension = defaultDimension
	}
	return &OpenAIEmbedder{
		client:    openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     model,
		dimension: dimension,
	}
}

// Embed returns one vector per input text, in input order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors[d.Index] = vec
	}
	return vectors, nil
}

// Dimension returns the embedding vector dimension.
func (e *OpenAIEmbedder) Dimension() int { return e.dimension }
