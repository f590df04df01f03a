// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance filters retrieved documents down to the ones worth
// answering from. Filtering runs in two stages: a confidence cutoff on
// retrieval distance, then a model judgment over the survivors.
package relevance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/samuel-halstead/research-assistant/internal/llm"
	"github.com/samuel-halstead/research-assistant/pkg/types"
)

// ErrCheckUnavailable wraps correlation model failures when the configured
// policy is to abort the request.
var ErrCheckUnavailable = errors.New("relevance check unavailable")

const defaultConfidenceThreshold = 0.7

// FilterByConfidence keeps documents whose similarity (one minus distance)
// meets the threshold. Documents compare as distances internally, so a
// document passes when 1 - Distance >= threshold. A zero threshold falls
// back to the default 0.7. Order is preserved.
func FilterByConfidence(docs []types.RetrievedDocument, threshold float64) []types.RetrievedDocument {
	if threshold == 0 {
		threshold = defaultConfidenceThreshold
	}
	kept := make([]types.RetrievedDocument, 0, len(docs))
	for _, d := range docs {
		if d.Similarity() >= threshold {
			kept = append(kept, d)
		}
	}
	return reindex(kept)
}

// IndexJudgment is the outcome of one correlation check.
type IndexJudgment struct {
	// Irrelevant holds the valid 1-based indexes the model flagged.
	Irrelevant []int

	// InvalidIgnored counts model-reported indexes outside 1..len(docs)
	// that were discarded.
	InvalidIgnored int
}

// Checker asks the model which candidates do not answer the query.
type Checker struct {
	client llm.Client
	policy types.FailurePolicy
	logger *zap.Logger
}

// NewChecker builds a correlation checker. An empty policy defaults to
// fail: a broken model call aborts the request rather than letting
// unvetted documents through.
func NewChecker(client llm.Client, cfg types.RelevanceConfig, logger *zap.Logger) *Checker {
	policy := cfg.OnCheckFailure
	if policy == "" {
		policy = types.PolicyFail
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{client: client, policy: policy, logger: logger}
}

const correlationSystem = `You review search results for a research question.
Given a numbered list of documents, identify the ones that do not help answer
the question. Judge only from the title and abstract shown. Respond with the
numbers of the unhelpful documents; respond with an empty list if every
document is helpful.`

// Filter removes the documents the model judges irrelevant to the query and
// returns the survivors in their original order, reindexed from 1. Indexes
// the model reports outside 1..len(docs) are ignored and counted in the
// judgment. An empty input returns immediately without a model call.
//
// When the model call fails the configured policy decides: fail returns an
// error wrapping ErrCheckUnavailable, pass returns the input unchanged.
func (c *Checker) Filter(ctx context.Context, query string, docs []types.RetrievedDocument) ([]types.RetrievedDocument, IndexJudgment, error) {
	if len(docs) == 0 {
		return docs, IndexJudgment{}, nil
	}

	schema := llm.Schema{
		Name: "correlation",
		Definition: llm.ObjectSchema(map[string]any{
			"irrelevant_indexes": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "integer"},
				"description": "1-based indexes of documents that do not help answer the question",
			},
		}),
	}

	raw, err := c.client.Complete(ctx, correlationSystem, correlationPrompt(query, docs), schema)
	if err != nil {
		if c.policy == types.PolicyPass {
			c.logger.Warn("correlation check failed, passing documents through", zap.Error(err))
			return docs, IndexJudgment{}, nil
		}
		return nil, IndexJudgment{}, fmt.Errorf("%w: %v", ErrCheckUnavailable, err)
	}

	var verdict struct {
		IrrelevantIndexes []int `json:"irrelevant_indexes"`
	}
	if err := json.Unmarshal(raw, &verdict); err != nil {
		if c.policy == types.PolicyPass {
			c.logger.Warn("correlation verdict unreadable, passing documents through", zap.Error(err))
			return docs, IndexJudgment{}, nil
		}
		return nil, IndexJudgment{}, fmt.Errorf("%w: decoding verdict: %v", ErrCheckUnavailable, err)
	}

	var judgment IndexJudgment
	drop := make(map[int]struct{}, len(verdict.IrrelevantIndexes))
	for _, i := range verdict.IrrelevantIndexes {
		if i < 1 || i > len(docs) {
			judgment.InvalidIgnored++
			continue
		}
		if _, ok := drop[i]; ok {
			continue
		}
		drop[i] = struct{}{}
		judgment.Irrelevant = append(judgment.Irrelevant, i)
	}
	if judgment.InvalidIgnored > 0 {
		c.logger.Warn("correlation verdict contained out-of-range indexes",
			zap.Int("ignored", judgment.InvalidIgnored))
	}

	kept := make([]types.RetrievedDocument, 0, len(docs))
	for i, d := range docs {
		if _, ok := drop[i+1]; ok {
			continue
		}
		kept = append(kept, d)
	}
	return reindex(kept), judgment, nil
}

// correlationPrompt lists the candidates one per numbered block, title and
// abstract only.
func correlationPrompt(query string, docs []types.RetrievedDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nDocuments:\n", query)
	for i, d := range docs {
		fmt.Fprintf(&b, "%d. Title: %s\n   Abstract: %s\n", i+1, d.Title, d.Abstract)
	}
	return b.String()
}

func reindex(docs []types.RetrievedDocument) []types.RetrievedDocument {
	for i := range docs {
		docs[i].Index = i + 1
	}
	return docs
}
