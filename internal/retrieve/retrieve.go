// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve ranks stored documents against a query and exposes
// them under a single distance convention.
package retrieve

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/samuel-halstead/research-assistant/internal/docstore"
	"github.com/samuel-halstead/research-assistant/pkg/types"
)

const (
	defaultNodeTopK     = 20
	defaultDocumentTopK = 3
)

// Querier is the slice of the document store the retriever needs.
type Querier interface {
	Query(ctx context.Context, text string, k int) ([]docstore.Candidate, docstore.ScoreConvention, error)
}

// Retriever turns a raw query into a ranked, deduplicated document list.
// Scores from the underlying index are normalized into distances in [0,1]
// where 0 means identical, so downstream stages never see the index's own
// convention.
type Retriever struct {
	store  Querier
	cfg    types.RetrieverConfig
	logger *zap.Logger
}

// NewRetriever builds a retriever over store. Zero config fields fall back
// to the defaults (20 candidates, 3 documents).
func NewRetriever(store Querier, cfg types.RetrieverConfig, logger *zap.Logger) *Retriever {
	if cfg.NodeTopK <= 0 {
		cfg.NodeTopK = defaultNodeTopK
	}
	if cfg.DocumentTopK <= 0 {
		cfg.DocumentTopK = defaultDocumentTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{store: store, cfg: cfg, logger: logger}
}

// Retrieve queries the index for up to NodeTopK candidates, deduplicates
// them by document id keeping the best-ranked occurrence, and returns at
// most DocumentTopK documents in ascending distance order. Index fields
// are assigned 1-based in that order.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]types.RetrievedDocument, error) {
	candidates, convention, err := r.store.Query(ctx, query, r.cfg.NodeTopK)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	docs := make([]types.RetrievedDocument, 0, r.cfg.DocumentTopK)
	seen := make(map[string]struct{}, r.cfg.DocumentTopK)
	for _, c := range candidates {
		if _, ok := seen[c.Doc.ID]; ok {
			continue
		}
		seen[c.Doc.ID] = struct{}{}
		docs = append(docs, types.RetrievedDocument{
			Document: c.Doc,
			Distance: normalize(c.Score, convention),
		})
		if len(docs) == r.cfg.DocumentTopK {
			break
		}
	}

	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Distance < docs[j].Distance })
	for i := range docs {
		docs[i].Index = i + 1
	}

	r.logger.Debug("retrieved documents",
		zap.Int("candidates", len(candidates)),
		zap.Int("documents", len(docs)))
	return docs, nil
}

// normalize maps an index score into a distance in [0,1], 0 identical.
// Bounded similarities invert directly; unbounded ones decay so larger
// scores land closer to 0.
func normalize(score float64, convention docstore.ScoreConvention) float64 {
	switch convention {
	case docstore.UnboundedSimilarity:
		if score < 0 {
			score = 0
		}
		return 1 / (1 + score)
	default:
		d := 1 - score
		if d < 0 {
			return 0
		}
		if d > 1 {
			return 1
		}
		return d
	}
}
