// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docstore persists research documents and answers nearest-neighbor
// queries over their embedded abstracts. The store owns embedding-on-write:
// a document added through Add is immediately retrievable, with no
// eventual-consistency window. Vector storage is abstracted behind the
// VectorIndex interface with one adapter per backend.
package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samuel-halstead/research-assistant/internal/embed"
	"github.com/samuel-halstead/research-assistant/pkg/types"
)

// Sentinel errors for the document store failure modes.
var (
	// ErrNotFound indicates no document exists under the requested id.
	ErrNotFound = errors.New("document not found")

	// ErrStorageUnavailable indicates the backing index cannot be reached
	// or refused the operation.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrCorruptRecord indicates stored metadata could not be decoded.
	ErrCorruptRecord = errors.New("corrupt document record")
)

// ScoreConvention declares how a vector index reports raw similarity scores.
// The retriever normalizes raw scores into distances based on the declared
// convention, so every backend adapter must pick one.
type ScoreConvention int

const (
	// BoundedSimilarity means scores lie in [0,1] with 1 identical.
	BoundedSimilarity ScoreConvention = iota

	// UnboundedSimilarity means scores are non-negative with no upper
	// bound; larger is better.
	UnboundedSimilarity
)

// Candidate is a raw nearest-neighbor hit: the stored document plus the
// backend's raw score under its declared convention.
type Candidate struct {
	Doc   types.Document
	Score float64
}

// VectorIndex is the capability contract the store expects from a vector
// storage backend. Implementations must be safe for concurrent use.
type VectorIndex interface {
	// Convention reports the score convention of Query results.
	Convention() ScoreConvention

	// Add persists the document metadata and its embedding under doc.ID.
	Add(ctx context.Context, doc types.Document, vector []float32) error

	// Get returns the document stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) (types.Document, error)

	// List returns all documents, or the subset matching ids when ids is
	// non-empty. Unmatched ids are silently omitted.
	List(ctx context.Context, ids []string) ([]types.Document, error)

	// Delete removes the given ids. Deleting a non-existent id is not an
	// error.
	Delete(ctx context.Context, ids []string) error

	// Query returns up to k nearest neighbors of the vector, best first.
	Query(ctx context.Context, vector []float32, k int) ([]Candidate, error)
}

// Store is the document store: CRUD keyed by stable identifier, with
// embedding-on-write and nearest-neighbor query over the abstract field.
type Store struct {
	index    VectorIndex
	embedder embed.Embedder
	logger   *zap.Logger
}

// NewStore wires a vector index and an embedder into a document store.
func NewStore(index VectorIndex, embedder embed.Embedder, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{index: index, embedder: embedder, logger: logger}
}

// Add embeds the document's abstract and persists vector plus metadata.
// A missing id is assigned here and is immutable afterwards; the document
// is retrievable as soon as Add returns.
func (s *Store) Add(ctx context.Context, doc *types.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	vectors, err := s.embedder.Embed(ctx, []string{doc.Abstract})
	if err != nil {
		return fmt.Errorf("embedding abstract for %s: %w", doc.ID, err)
	}

	if err := s.index.Add(ctx, *doc, vectors[0]); err != nil {
		return fmt.Errorf("storing document %s: %w", doc.ID, err)
	}

	s.logger.Info("document stored",
		zap.String("id", doc.ID),
		zap.String("title", doc.Title))
	return nil
}

// Get returns the document stored under id.
func (s *Store) Get(ctx context.Context, id string) (types.Document, error) {
	return s.index.Get(ctx, id)
}

// List returns all documents, or the subset matching ids when ids is
// non-empty. Unmatched ids are silently omitted, not an error.
func (s *Store) List(ctx context.Context, ids []string) ([]types.Document, error) {
	return s.index.List(ctx, ids)
}

// Delete removes the given ids from the index and its metadata. Deletion is
// idempotent: ids that do not exist are ignored.
func (s *Store) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.index.Delete(ctx, ids); err != nil {
		return err
	}
	s.logger.Info("documents deleted", zap.Int("count", len(ids)))
	return nil
}

// Query embeds the query text and returns up to k raw candidates from the
// index, together with the index's declared score convention.
func (s *Store) Query(ctx context.Context, text string, k int) ([]Candidate, ScoreConvention, error) {
	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, 0, fmt.Errorf("embedding query: %w", err)
	}

	candidates, err := s.index.Query(ctx, vectors[0], k)
	if err != nil {
		return nil, 0, err
	}
	return candidates, s.index.Convention(), nil
}
