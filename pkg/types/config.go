// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StoreBackend identifies the vector index implementation backing the
// document store.
type StoreBackend string

const (
	BackendSQLite StoreBackend = "sqlite"
	BackendQdrant StoreBackend = "qdrant"
)

// StoreConfig holds settings for the document store stage.
type StoreConfig struct {
	// Backend selects the vector index: sqlite or qdrant.
	Backend StoreBackend `json:"backend" yaml:"backend"`

	// DataDir is the base directory for the SQLite backend (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// QdrantURL is the base URL of the Qdrant HTTP API (qdrant backend only).
	QdrantURL string `json:"qdrant_url,omitempty" yaml:"qdrant_url,omitempty"`

	// QdrantAPIKey authenticates against a secured Qdrant deployment.
	QdrantAPIKey string `json:"qdrant_api_key,omitempty" yaml:"qdrant_api_key,omitempty"`

	// Collection is the vector collection name (default "documents").
	Collection string `json:"collection" yaml:"collection"`
}

// EmbeddingConfig holds settings for the embedding service.
type EmbeddingConfig struct {
	// Model is the embedding model identifier (default "text-embedding-3-small").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the embedding API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Dimension is the embedding vector dimension (default 1536).
	Dimension int `json:"dimension" yaml:"dimension"`
}

// LLMConfig holds shared settings for stages that call a language model.
// Sampling temperature is always pinned to zero for reproducibility.
type LLMConfig struct {
	// Model is the chat model identifier (default "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout bounds a single model call (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retry attempts for transient failures
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// RetrieverConfig holds settings for the retrieval stage.
type RetrieverConfig struct {
	// NodeTopK is the raw candidate pool size requested from the vector
	// index before deduplication (default 20). Always >= DocumentTopK.
	NodeTopK int `json:"node_top_k" yaml:"node_top_k"`

	// DocumentTopK is the number of distinct source documents returned
	// per query (default 3).
	DocumentTopK int `json:"document_top_k" yaml:"document_top_k"`
}

// FailurePolicy selects how a stage reacts when its model call fails.
type FailurePolicy string

const (
	// PolicyFail propagates the stage failure and aborts the request.
	PolicyFail FailurePolicy = "fail"

	// PolicyPass degrades gracefully: the stage is skipped and its input
	// passes through unchanged.
	PolicyPass FailurePolicy = "pass"
)

// RelevanceConfig holds settings for the two-stage relevance filter.
type RelevanceConfig struct {
	// ConfidenceThreshold is the minimum similarity (equivalently, one minus
	// the maximum distance) required to retain a retrieved document
	// (default 0.7).
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold"`

	// OnCheckFailure selects the policy when the correlation model call
	// fails: fail (default) aborts the request, pass keeps the candidates
	// unfiltered.
	OnCheckFailure FailurePolicy `json:"on_check_failure" yaml:"on_check_failure"`
}

// ResponseMode selects the enrichment output shape of the pipeline.
type ResponseMode string

const (
	// ModeSummary produces a plain language-annotated summary text.
	ModeSummary ResponseMode = "summary"

	// ModeComparison produces a structured similarities/differences narrative.
	ModeComparison ResponseMode = "comparison"
)

// PipelineConfig holds settings for the research pipeline orchestrator.
type PipelineConfig struct {
	// Mode selects the response shape: summary or comparison
	// (default comparison).
	Mode ResponseMode `json:"mode" yaml:"mode"`

	// TranslateConcurrency bounds concurrent per-document translation calls
	// (default 4).
	TranslateConcurrency int `json:"translate_concurrency" yaml:"translate_concurrency"`

	// OnTranslateFailure selects the policy when a translation call fails:
	// pass (default) returns the document untranslated, fail aborts the
	// request.
	OnTranslateFailure FailurePolicy `json:"on_translate_failure" yaml:"on_translate_failure"`
}

// AssistantConfig groups all stage configurations.
type AssistantConfig struct {
	Store     StoreConfig     `json:"store" yaml:"store"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	Retriever RetrieverConfig `json:"retriever" yaml:"retriever"`
	Relevance RelevanceConfig `json:"relevance" yaml:"relevance"`
	Pipeline  PipelineConfig  `json:"pipeline" yaml:"pipeline"`
}
