// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed turns text into vector embeddings for similarity search.
package embed

import "context"

// Embedder abstracts the embedding model so tests can supply a
// deterministic implementation.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int
}
