// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the research flow: language detection and
// retrieval run concurrently, the relevance stages prune the candidates,
// and enrichment produces the final response. An empty filtered set ends
// the request before any generation call fires.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samuel-halstead/research-assistant/internal/language"
	"github.com/samuel-halstead/research-assistant/internal/relevance"
	"github.com/samuel-halstead/research-assistant/pkg/types"
)

const defaultTranslateConcurrency = 4

// ErrEmptyQuery is returned for a blank research query.
var ErrEmptyQuery = errors.New("empty query")

// Retriever produces ranked candidate documents for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]types.RetrievedDocument, error)
}

// Checker is the model-backed correlation stage of the relevance filter.
type Checker interface {
	Filter(ctx context.Context, query string, docs []types.RetrievedDocument) ([]types.RetrievedDocument, relevance.IndexJudgment, error)
}

// Enricher generates the response content for retained documents.
type Enricher interface {
	Compare(ctx context.Context, query string, docs []types.RetrievedDocument, lang string) (*types.ComparisonResult, error)
	Summarize(ctx context.Context, query string, docs []types.RetrievedDocument, lang string) (string, error)
	Translate(ctx context.Context, doc types.RetrievedDocument, lang string) (types.RetrievedDocument, error)
}

// Pipeline wires the research stages together. All collaborators are
// injected at construction and owned by the caller.
type Pipeline struct {
	retriever Retriever
	detector  *language.Detector
	checker   Checker
	enricher  Enricher
	relevance types.RelevanceConfig
	cfg       types.PipelineConfig
	logger    *zap.Logger
}

// New builds a pipeline. Zero config fields fall back to defaults:
// comparison mode, translate concurrency 4, untranslated pass-through on
// translation failure.
func New(retriever Retriever, detector *language.Detector, checker Checker, enricher Enricher,
	relevanceCfg types.RelevanceConfig, cfg types.PipelineConfig, logger *zap.Logger) *Pipeline {
	if cfg.Mode == "" {
		cfg.Mode = types.ModeComparison
	}
	if cfg.TranslateConcurrency <= 0 {
		cfg.TranslateConcurrency = defaultTranslateConcurrency
	}
	if cfg.OnTranslateFailure == "" {
		cfg.OnTranslateFailure = types.PolicyPass
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		retriever: retriever,
		detector:  detector,
		checker:   checker,
		enricher:  enricher,
		relevance: relevanceCfg,
		cfg:       cfg,
		logger:    logger,
	}
}

// Research runs the full flow for one query. When no document survives
// filtering the response is exactly the negative gate: every other field
// stays unset and no generation call is made.
func (p *Pipeline) Research(ctx context.Context, query string) (types.ResearchResponse, error) {
	if query == "" {
		return types.ResearchResponse{}, ErrEmptyQuery
	}

	var (
		queryLang language.Label
		docs      []types.RetrievedDocument
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		queryLang = p.detector.Detect(query)
		return nil
	})
	g.Go(func() error {
		var err error
		docs, err = p.retriever.Retrieve(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return types.ResearchResponse{}, fmt.Errorf("retrieving documents: %w", err)
	}

	docs = relevance.FilterByConfidence(docs, p.relevance.ConfidenceThreshold)
	docs, judgment, err := p.checker.Filter(ctx, query, docs)
	if err != nil {
		return types.ResearchResponse{}, err
	}
	if judgment.InvalidIgnored > 0 {
		p.logger.Warn("correlation stage reported invalid indexes",
			zap.Int("ignored", judgment.InvalidIgnored))
	}

	if len(docs) == 0 {
		p.logger.Info("no relevant documents", zap.String("query", query))
		return types.ResearchResponse{AreRelevantDocuments: false}, nil
	}

	docs, err = p.translateAll(ctx, docs, queryLang)
	if err != nil {
		return types.ResearchResponse{}, err
	}

	response := types.ResearchResponse{
		AreRelevantDocuments: true,
		Documents:            docs,
		QueryLanguage:        queryLang.Code,
	}

	switch p.cfg.Mode {
	case types.ModeSummary:
		summary, err := p.enricher.Summarize(ctx, query, docs, queryLang.Name)
		if err != nil {
			return types.ResearchResponse{}, err
		}
		response.Summary = summary
	default:
		comparison, err := p.enricher.Compare(ctx, query, docs, queryLang.Name)
		if err != nil {
			return types.ResearchResponse{}, err
		}
		response.Comparison = comparison
	}

	p.logger.Info("research complete",
		zap.Int("documents", len(docs)),
		zap.String("language", queryLang.Code))
	return response, nil
}

// translateAll translates each retained document into the query language,
// fanning out up to TranslateConcurrency calls while keeping the filtered
// order. Each document's own language is detected and recorded first. An
// unknown query language skips translation entirely.
func (p *Pipeline) translateAll(ctx context.Context, docs []types.RetrievedDocument, queryLang language.Label) ([]types.RetrievedDocument, error) {
	for i := range docs {
		docs[i].Language = p.detector.Detect(docs[i].Abstract).Code
	}
	if queryLang == language.Unknown {
		return docs, nil
	}

	translated := make([]types.RetrievedDocument, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.TranslateConcurrency)
	for i, doc := range docs {
		g.Go(func() error {
			out, err := p.enricher.Translate(gctx, doc, queryLang.Name)
			if err != nil {
				if p.cfg.OnTranslateFailure == types.PolicyFail {
					return err
				}
				p.logger.Warn("translation failed, keeping original text",
					zap.String("id", doc.ID), zap.Error(err))
				out = doc
			}
			translated[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("translating documents: %w", err)
	}
	return translated, nil
}
