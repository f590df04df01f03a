// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich produces the response content for documents that survived
// filtering: a summary or structured comparison of the documents against
// the query, and per-document translation into the query language.
package enrich

import (
	"errors"

	"go.uber.org/zap"

	"github.com/samuel-halstead/research-assistant/internal/llm"
)

// ErrGenerationUnavailable wraps model failures during response generation.
var ErrGenerationUnavailable = errors.New("generation unavailable")

// Engine generates summaries, comparisons, and translations.
type Engine struct {
	client llm.Client
	logger *zap.Logger
}

// NewEngine builds an enrichment engine on the given model client.
func NewEngine(client llm.Client, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{client: client, logger: logger}
}
