// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samuel-halstead/research-assistant/internal/llm"
	"github.com/samuel-halstead/research-assistant/pkg/types"
)

const compareSystem = `You are a research analysis assistant.
You have received a user query and a list of documents with indexes starting
at 1. Compare the user query with the retrieved documents: state the
similarities, state the differences, then give a short summary of both. Be
concise and to the point.`

// Compare produces a structured comparison between the query and the
// documents, written in the given language.
func (e *Engine) Compare(ctx context.Context, query string, docs []types.RetrievedDocument, language string) (*types.ComparisonResult, error) {
	schema := llm.Schema{
		Name: "comparison",
		Definition: llm.ObjectSchema(map[string]any{
			"similarities": map[string]any{
				"type":        "string",
				"description": "what the documents share with the query",
			},
			"differences": map[string]any{
				"type":        "string",
				"description": "where the documents diverge from the query",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "short narrative combining similarities and differences",
			},
		}),
	}

	raw, err := e.client.Complete(ctx, compareSystem, comparePrompt(query, docs, language), schema)
	if err != nil {
		return nil, fmt.Errorf("%w: comparison: %v", ErrGenerationUnavailable, err)
	}

	var result types.ComparisonResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: decoding comparison: %v", ErrGenerationUnavailable, err)
	}
	return &result, nil
}

const summarizeSystem = `You are a research analysis assistant.
You have received a user query and a list of documents with indexes starting
at 1. Write a short summary of how the retrieved documents answer the query.
Be concise and to the point.`

// Summarize produces a plain-text summary of the documents against the
// query, written in the given language.
func (e *Engine) Summarize(ctx context.Context, query string, docs []types.RetrievedDocument, language string) (string, error) {
	schema := llm.Schema{
		Name: "summary",
		Definition: llm.ObjectSchema(map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "short summary of the documents against the query",
			},
		}),
	}

	raw, err := e.client.Complete(ctx, summarizeSystem, comparePrompt(query, docs, language), schema)
	if err != nil {
		return "", fmt.Errorf("%w: summary: %v", ErrGenerationUnavailable, err)
	}

	var result struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("%w: decoding summary: %v", ErrGenerationUnavailable, err)
	}
	return result.Summary, nil
}

// comparePrompt lists the query and the 1-indexed documents, then pins the
// response language.
func comparePrompt(query string, docs []types.RetrievedDocument, language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Query:\n%q\n\nRetrieved Documents:\n", query)
	for i, d := range docs {
		fmt.Fprintf(&b, "Index %d: Title: %q\nAbstract: %s\n", i+1, d.Title, d.Abstract)
	}
	fmt.Fprintf(&b, "\nRespond in %s.\n", language)
	return b.String()
}
