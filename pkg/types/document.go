// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Document is a persistent research document stored in the document store.
// The abstract is the field embedded for similarity search.
type Document struct {
	// ID is a stable unique identifier, assigned at creation if absent and
	// immutable thereafter.
	ID string `json:"id" yaml:"id"`

	// Title is the document title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the document abstract; it is the embedded text.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the document authors in source order. The stored form is
	// always a split sequence, never a raw delimited string.
	Authors []string `json:"authors" yaml:"authors"`

	// Language is the detected-language label, populated lazily during the
	// research flow. Empty at creation.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// SplitAuthors converts a single delimited author string into the stored
// sequence form: segments are split on ";" and trimmed, and empty segments
// (artifacts of a trailing or doubled delimiter) are dropped.
func SplitAuthors(raw string) []string {
	parts := strings.Split(raw, ";")
	authors := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			authors = append(authors, trimmed)
		}
	}
	return authors
}

// RetrievedDocument is a Document that passed through the retriever, carrying
// a normalized distance score. It is ephemeral and never persisted.
type RetrievedDocument struct {
	Document

	// Distance is the normalized dissimilarity of the document to the query:
	// 0 means identical, larger means less similar. The wire name is
	// "similarity" for compatibility with existing consumers; the value is a
	// distance and lower is always better.
	Distance float64 `json:"similarity" yaml:"similarity"`

	// Index is the 1-based position within a bounded candidate list, used
	// only to resolve model back-references during a single filtering round.
	Index int `json:"-" yaml:"-"`
}

// Similarity returns the bounded similarity derived from the distance score.
func (d RetrievedDocument) Similarity() float64 {
	return 1 - d.Distance
}

// ComparisonResult is the structured output of the comparison engine.
type ComparisonResult struct {
	// Similarities describes what the retained documents share with the query.
	Similarities string `json:"similarities" yaml:"similarities"`

	// Differences describes where the retained documents diverge from the query.
	Differences string `json:"differences" yaml:"differences"`

	// Summary is a short narrative combining similarities and differences,
	// written in the detected query language.
	Summary string `json:"summary" yaml:"summary"`
}

// ResearchResponse is the end-to-end output of the research pipeline.
// Exactly one of Summary or Comparison is set when relevant documents exist;
// neither is set when AreRelevantDocuments is false.
type ResearchResponse struct {
	// AreRelevantDocuments reports whether any document survived filtering.
	AreRelevantDocuments bool `json:"are_relevant_documents" yaml:"are_relevant_documents"`

	// Documents holds the retained documents, present only when relevant
	// documents exist, in filtered retrieval order.
	Documents []RetrievedDocument `json:"documents,omitempty" yaml:"documents,omitempty"`

	// Summary is a language-annotated plain-text summary (summary mode).
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Comparison is the structured comparison narrative (comparison mode).
	Comparison *ComparisonResult `json:"comparison,omitempty" yaml:"comparison,omitempty"`

	// QueryLanguage is the detected language of the query.
	QueryLanguage string `json:"query_language,omitempty" yaml:"query_language,omitempty"`
}
