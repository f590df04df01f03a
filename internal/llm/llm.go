// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm is the language-model service boundary shared by the
// relevance, comparison, and translation stages. Callers supply a system
// prompt, a user prompt, and a JSON schema; implementations return the raw
// structured JSON. Sampling temperature is always pinned to zero so repeated
// calls with the same inputs are as reproducible as the model allows.
package llm

import "context"

// Schema describes the structured output contract for one completion.
type Schema struct {
	// Name labels the schema in the request (e.g. "correlation").
	Name string

	// Definition is a JSON-schema object describing the expected output.
	Definition map[string]any
}

// Client issues a single structured completion.
type Client interface {
	// Complete sends the prompts and returns the model's JSON output
	// conforming to the schema.
	Complete(ctx context.Context, system, user string, schema Schema) ([]byte, error)
}

// ObjectSchema builds a strict JSON-schema object from property name to
// property definition. All listed properties are required and additional
// properties are rejected, matching the strict structured-output contract.
func ObjectSchema(properties map[string]any) map[string]any {
	required := make([]string, 0, len(properties))
	for name := range properties {
		required = append(required, name)
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}
