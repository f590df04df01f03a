// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samuel-halstead/research-assistant/internal/httputil"
	"github.com/samuel-halstead/research-assistant/pkg/types"
)

const defaultCollection = "documents"

// QdrantIndex stores documents as points in a Qdrant collection over its
// HTTP API. The collection uses cosine scoring; raw scores are mapped into
// [0,1], so the adapter declares the bounded-similarity convention.
type QdrantIndex struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

// NewQdrantIndex builds an adapter for the Qdrant deployment in cfg. It
// creates the collection on first use if it does not exist.
func NewQdrantIndex(cfg types.StoreConfig, dimension int) (*QdrantIndex, error) {
	if cfg.QdrantURL == "" {
		return nil, fmt.Errorf("qdrant backend requires qdrant_url")
	}
	collection := cfg.Collection
	if collection == "" {
		collection = defaultCollection
	}

	x := &QdrantIndex{
		baseURL:    cfg.QdrantURL,
		apiKey:     cfg.QdrantAPIKey,
		collection: collection,
		client:     &http.Client{Timeout: 30 * time.Second},
	}

	if err := x.ensureCollection(context.Background(), dimension); err != nil {
		return nil, err
	}
	return x, nil
}

// Convention reports the bounded-similarity convention.
func (x *QdrantIndex) Convention() ScoreConvention { return BoundedSimilarity }

// qdrantPayload is the document metadata stored alongside each vector.
type qdrantPayload struct {
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Authors  []string `json:"authors"`
	Language string   `json:"language,omitempty"`
}

func payloadDocument(id string, p qdrantPayload) types.Document {
	return types.Document{
		ID:       id,
		Title:    p.Title,
		Abstract: p.Abstract,
		Authors:  p.Authors,
		Language: p.Language,
	}
}

// Add upserts the document as a single point keyed by doc.ID.
func (x *QdrantIndex) Add(ctx context.Context, doc types.Document, vector []float32) error {
	body := map[string]any{
		"points": []map[string]any{{
			"id":     doc.ID,
			"vector": vector,
			"payload": qdrantPayload{
				Title:    doc.Title,
				Abstract: doc.Abstract,
				Authors:  doc.Authors,
				Language: doc.Language,
			},
		}},
	}
	_, err := x.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s/points?wait=true", x.collection), body)
	if err != nil {
		return fmt.Errorf("upserting point %s: %w", doc.ID, err)
	}
	return nil
}

// Get retrieves a single point by id, or ErrNotFound.
func (x *QdrantIndex) Get(ctx context.Context, id string) (types.Document, error) {
	docs, err := x.retrieve(ctx, []string{id})
	if err != nil {
		return types.Document{}, err
	}
	if len(docs) == 0 {
		return types.Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return docs[0], nil
}

// List returns all documents via scroll, or the subset matching ids.
// Unmatched ids are silently omitted.
func (x *QdrantIndex) List(ctx context.Context, ids []string) ([]types.Document, error) {
	if len(ids) > 0 {
		return x.retrieve(ctx, ids)
	}

	var (
		docs   []types.Document
		offset any
	)
	for {
		body := map[string]any{"limit": 256, "with_payload": true}
		if offset != nil {
			body["offset"] = offset
		}
		resp, err := x.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/scroll", x.collection), body)
		if err != nil {
			return nil, fmt.Errorf("scrolling points: %w", err)
		}

		var parsed struct {
			Result struct {
				Points []struct {
					ID      string        `json:"id"`
					Payload qdrantPayload `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		if err := json.Unmarshal(resp, &parsed); err != nil {
			return nil, fmt.Errorf("%w: scroll response: %v", ErrCorruptRecord, err)
		}

		for _, p := range parsed.Result.Points {
			docs = append(docs, payloadDocument(p.ID, p.Payload))
		}
		if parsed.Result.NextPageOffset == nil {
			return docs, nil
		}
		offset = parsed.Result.NextPageOffset
	}
}

// Delete removes the given point ids. Missing ids are ignored by Qdrant.
func (x *QdrantIndex) Delete(ctx context.Context, ids []string) error {
	body := map[string]any{"points": ids}
	_, err := x.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/delete?wait=true", x.collection), body)
	if err != nil {
		return fmt.Errorf("deleting points: %w", err)
	}
	return nil
}

// Query searches the collection and maps cosine scores into [0,1].
func (x *QdrantIndex) Query(ctx context.Context, vector []float32, k int) ([]Candidate, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	resp, err := x.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/search", x.collection), body)
	if err != nil {
		return nil, fmt.Errorf("searching points: %w", err)
	}

	var parsed struct {
		Result []struct {
			ID      string        `json:"id"`
			Score   float64       `json:"score"`
			Payload qdrantPayload `json:"payload"`
		} `json:"result"`
	}
	if err := json.Unmarshal(resp, &parsed); err != nil {
		return nil, fmt.Errorf("%w: search response: %v", ErrCorruptRecord, err)
	}

	candidates := make([]Candidate, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		candidates = append(candidates, Candidate{
			Doc:   payloadDocument(r.ID, r.Payload),
			Score: (r.Score + 1) / 2,
		})
	}
	return candidates, nil
}

// retrieve fetches specific points by id.
func (x *QdrantIndex) retrieve(ctx context.Context, ids []string) ([]types.Document, error) {
	body := map[string]any{"ids": ids, "with_payload": true}
	resp, err := x.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points", x.collection), body)
	if err != nil {
		return nil, fmt.Errorf("retrieving points: %w", err)
	}

	var parsed struct {
		Result []struct {
			ID      string        `json:"id"`
			Payload qdrantPayload `json:"payload"`
		} `json:"result"`
	}
	if err := json.Unmarshal(resp, &parsed); err != nil {
		return nil, fmt.Errorf("%w: retrieve response: %v", ErrCorruptRecord, err)
	}

	docs := make([]types.Document, 0, len(parsed.Result))
	for _, p := range parsed.Result {
		docs = append(docs, payloadDocument(p.ID, p.Payload))
	}
	return docs, nil
}

// ensureCollection creates the cosine collection if it does not exist.
func (x *QdrantIndex) ensureCollection(ctx context.Context, dimension int) error {
	resp, err := x.do(ctx, http.MethodGet, fmt.Sprintf("/collections/%s/exists", x.collection), nil)
	if err != nil {
		return fmt.Errorf("checking collection: %w", err)
	}
	var parsed struct {
		Result struct {
			Exists bool `json:"exists"`
		} `json:"result"`
	}
	if err := json.Unmarshal(resp, &parsed); err == nil && parsed.Result.Exists {
		return nil
	}

	body := map[string]any{
		"vectors": map[string]any{"size": dimension, "distance": "Cosine"},
	}
	if _, err := x.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", x.collection), body); err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	return nil
}

// do issues one HTTP request against the Qdrant API, retrying 429 responses.
func (x *QdrantIndex) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, x.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := httputil.DoWithRetry(ctx, x.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrStorageUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: qdrant returned HTTP %d: %s", ErrStorageUnavailable, resp.StatusCode, data)
	}
	return data, nil
}
