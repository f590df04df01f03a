// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// Mock produces deterministic embeddings derived from a hash of the input
// text. Identical inputs always yield identical vectors, so similarity
// ordering is stable across runs. Used by tests and offline runs.
type Mock struct {
	dim int
}

// NewMock returns a deterministic embedder of the given dimension.
func NewMock(dim int) *Mock {
	if dim <= 0 {
		dim = 64
	}
	return &Mock{dim: dim}
}

// Embed returns one deterministic unit vector per input text.
func (m *Mock) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, t := range texts {
		vectors = append(vectors, deterministicVector(t, m.dim))
	}
	return vectors, nil
}

// Dimension returns the embedding vector dimension.
func (m *Mock) Dimension() int { return m.dim }

// deterministicVector expands a SHA-256 digest of the input into a unit
// vector of the requested dimension.
func deterministicVector(input string, dim int) []float32 {
	seed := sha256.Sum256([]byte(input))

	vec := make([]float32, dim)
	var norm float64
	for i := range vec {
		// Re-hash the seed with the component index for more than 8 components.
		var buf [36]byte
		copy(buf[:32], seed[:])
		binary.BigEndian.PutUint32(buf[32:], uint32(i))
		h := sha256.Sum256(buf[:])

		v := float64(binary.BigEndian.Uint64(h[:8]))/float64(math.MaxUint64)*2 - 1
		vec[i] = float32(v)
		norm += v * v
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
