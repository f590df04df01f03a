// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samuel-halstead/research-assistant/internal/llm"
	"github.com/samuel-halstead/research-assistant/pkg/types"
)

const translateSystem = `You are a document translation assistant.
You have received a document with a title and abstract. Translate both into
the target language, preserving the academic tone of the title and the
scientific accuracy of the abstract. The translation must read naturally in
the target language.`

// Translate returns a copy of doc with the title and abstract translated
// into the target language. Every other field, including the id, authors,
// and distance, is passed through unchanged.
func (e *Engine) Translate(ctx context.Context, doc types.RetrievedDocument, targetLanguage string) (types.RetrievedDocument, error) {
	schema := llm.Schema{
		Name: "translation",
		Definition: llm.ObjectSchema(map[string]any{
			"translated_title": map[string]any{
				"type":        "string",
				"description": "the title in the target language",
			},
			"translated_abstract": map[string]any{
				"type":        "string",
				"description": "the abstract in the target language",
			},
		}),
	}

	prompt := fmt.Sprintf("Title: %q\nAbstract: %s\n\nTranslate to %s.\n",
		doc.Title, doc.Abstract, targetLanguage)

	raw, err := e.client.Complete(ctx, translateSystem, prompt, schema)
	if err != nil {
		return types.RetrievedDocument{}, fmt.Errorf("%w: translating %s: %v", ErrGenerationUnavailable, doc.ID, err)
	}

	var result struct {
		TranslatedTitle    string `json:"translated_title"`
		TranslatedAbstract string `json:"translated_abstract"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return types.RetrievedDocument{}, fmt.Errorf("%w: decoding translation for %s: %v", ErrGenerationUnavailable, doc.ID, err)
	}

	translated := doc
	translated.Title = result.TranslatedTitle
	translated.Abstract = result.TranslatedAbstract
	return translated, nil
}
