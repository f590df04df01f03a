package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samuel-halstead/research-assistant/internal/llm"
	"github.com/samuel-halstead/research-assistant/pkg/types"
)

type fakeLLM struct {
	response   string
	err        error
	lastUser   string
	lastSchema llm.Schema
}

func (f *fakeLLM) Complete(_ context.Context, _ string, user string, schema llm.Schema) ([]byte, error) {
	f.lastUser = user
	f.lastSchema = schema
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.response), nil
}

func sampleDocs() []types.RetrievedDocument {
	return []types.RetrievedDocument{
		{
			Document: types.Document{ID: "d1", Title: "Sparse Attention", Abstract: "Reducing attention cost."},
			Distance: 0.1, Index: 1,
		},
		{
			Document: types.Document{ID: "d2", Title: "Dense Retrieval", Abstract: "Embedding-based search."},
			Distance: 0.2, Index: 2,
		},
	}
}

func TestCompareParsesStructuredResult(t *testing.T) {
	client := &fakeLLM{response: `{"similarities": "both study attention", "differences": "scope differs", "summary": "closely related"}`}
	e := NewEngine(client, nil)

	result, err := e.Compare(context.Background(), "efficient attention", sampleDocs(), "English")
	if err != nil {
		t.Fatal(err)
	}
	if result.Similarities != "both study attention" {
		t.Errorf("Similarities = %q", result.Similarities)
	}
	if result.Summary != "closely related" {
		t.Errorf("Summary = %q", result.Summary)
	}
}

func TestComparePromptIncludesLanguageAndIndexes(t *testing.T) {
	client := &fakeLLM{response: `{"similarities": "", "differences": "", "summary": ""}`}
	e := NewEngine(client, nil)

	if _, err := e.Compare(context.Background(), "q", sampleDocs(), "Spanish"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(client.lastUser, "Respond in Spanish.") {
		t.Errorf("prompt missing language pin:\n%s", client.lastUser)
	}
	if !strings.Contains(client.lastUser, "Index 1:") || !strings.Contains(client.lastUser, "Index 2:") {
		t.Errorf("prompt missing 1-based indexes:\n%s", client.lastUser)
	}
}

func TestCompareWrapsModelFailure(t *testing.T) {
	client := &fakeLLM{err: errors.New("model down")}
	e := NewEngine(client, nil)

	_, err := e.Compare(context.Background(), "q", sampleDocs(), "English")
	if !errors.Is(err, ErrGenerationUnavailable) {
		t.Fatalf("err = %v, want ErrGenerationUnavailable", err)
	}
}

func TestSummarizeReturnsText(t *testing.T) {
	client := &fakeLLM{response: `{"summary": "documents cover the query well"}`}
	e := NewEngine(client, nil)

	summary, err := e.Summarize(context.Background(), "q", sampleDocs(), "English")
	if err != nil {
		t.Fatal(err)
	}
	if summary != "documents cover the query well" {
		t.Errorf("summary = %q", summary)
	}
}

func TestSummarizeWrapsDecodeFailure(t *testing.T) {
	client := &fakeLLM{response: `not json`}
	e := NewEngine(client, nil)

	_, err := e.Summarize(context.Background(), "q", sampleDocs(), "English")
	if !errors.Is(err, ErrGenerationUnavailable) {
		t.Fatalf("err = %v, want ErrGenerationUnavailable", err)
	}
}

func TestTranslateReplacesOnlyTitleAndAbstract(t *testing.T) {
	client := &fakeLLM{response: `{"translated_title": "Atención Dispersa", "translated_abstract": "Reducción del coste."}`}
	e := NewEngine(client, nil)

	in := sampleDocs()[0]
	out, err := e.Translate(context.Background(), in, "Spanish")
	if err != nil {
		t.Fatal(err)
	}
	if out.Title != "Atención Dispersa" || out.Abstract != "Reducción del coste." {
		t.Errorf("translated fields = %q / %q", out.Title, out.Abstract)
	}
	if out.ID != in.ID {
		t.Errorf("ID changed: %q", out.ID)
	}
	if out.Distance != in.Distance {
		t.Errorf("Distance changed: %f", out.Distance)
	}
	if out.Index != in.Index {
		t.Errorf("Index changed: %d", out.Index)
	}
}

func TestTranslatePromptNamesTarget(t *testing.T) {
	client := &fakeLLM{response: `{"translated_title": "t", "translated_abstract": "a"}`}
	e := NewEngine(client, nil)

	if _, err := e.Translate(context.Background(), sampleDocs()[0], "French"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(client.lastUser, "Translate to French.") {
		t.Errorf("prompt missing target language:\n%s", client.lastUser)
	}
}

func TestTranslateWrapsModelFailure(t *testing.T) {
	client := &fakeLLM{err: errors.New("model down")}
	e := NewEngine(client, nil)

	_, err := e.Translate(context.Background(), sampleDocs()[0], "French")
	if !errors.Is(err, ErrGenerationUnavailable) {
		t.Fatalf("err = %v, want ErrGenerationUnavailable", err)
	}
}
