package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/samuel-halstead/research-assistant/internal/embed"
	"github.com/samuel-halstead/research-assistant/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) (*Store, *SQLiteIndex) {
	t.Helper()
	cfg := types.StoreConfig{DataDir: t.TempDir()}
	idx, err := NewSQLiteIndex(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { idx.Close() })
	return NewStore(idx, embed.NewMock(0), nil), idx
}

func sampleDocuments() []types.Document {
	return []types.Document{
		{
			ID:       "doc-attention",
			Title:    "Efficient Attention Mechanisms",
			Abstract: "We study sparse attention patterns that reduce transformer compute.",
			Authors:  []string{"A. Vasquez", "B. Chen"},
			Language: "eng",
		},
		{
			ID:       "doc-protein",
			Title:    "Protein Folding with Deep Networks",
			Abstract: "Deep learning predicts tertiary protein structure from sequence alone.",
			Authors:  []string{"C. Okafor"},
			Language: "eng",
		},
		{
			ID:       "doc-climate",
			Title:    "Regional Climate Downscaling",
			Abstract: "Statistical downscaling improves regional precipitation forecasts.",
			Authors:  []string{"D. Ivanova", "E. Park"},
			Language: "eng",
		},
	}
}

func addAll(t *testing.T, store *Store, docs []types.Document) {
	t.Helper()
	for i := range docs {
		if err := store.Add(context.Background(), &docs[i]); err != nil {
			t.Fatal(err)
		}
	}
}

// --- tests ---

func TestAddAssignsID(t *testing.T) {
	store, _ := testStore(t)

	doc := types.Document{Title: "Untitled", Abstract: "Some abstract."}
	if err := store.Add(context.Background(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.ID == "" {
		t.Fatal("expected generated ID on add")
	}

	got, err := store.Get(context.Background(), doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Untitled" {
		t.Errorf("Title = %q, want %q", got.Title, "Untitled")
	}
}

func TestGetRoundTrip(t *testing.T) {
	store, _ := testStore(t)
	docs := sampleDocuments()
	addAll(t, store, docs)

	got, err := store.Get(context.Background(), "doc-protein")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != docs[1].Title || got.Abstract != docs[1].Abstract {
		t.Errorf("round trip mismatch: got %+v", got)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "C. Okafor" {
		t.Errorf("Authors = %v, want [C. Okafor]", got.Authors)
	}
	if got.Language != "eng" {
		t.Errorf("Language = %q, want eng", got.Language)
	}
}

func TestGetNotFound(t *testing.T) {
	store, _ := testStore(t)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListAll(t *testing.T) {
	store, _ := testStore(t)
	addAll(t, store, sampleDocuments())

	docs, err := store.List(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 3 {
		t.Fatalf("List returned %d documents, want 3", len(docs))
	}
}

func TestListSubsetOmitsMissing(t *testing.T) {
	store, _ := testStore(t)
	addAll(t, store, sampleDocuments())

	docs, err := store.List(context.Background(), []string{"doc-climate", "missing", "doc-attention"})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("List returned %d documents, want 2", len(docs))
	}
	for _, d := range docs {
		if d.ID == "missing" {
			t.Error("unknown id should be omitted, not returned")
		}
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store, _ := testStore(t)
	addAll(t, store, sampleDocuments())

	ids := []string{"doc-attention", "doc-protein"}
	if err := store.Delete(context.Background(), ids); err != nil {
		t.Fatal(err)
	}
	// Deleting the same ids again must not fail.
	if err := store.Delete(context.Background(), ids); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}

	docs, err := store.List(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != "doc-climate" {
		t.Errorf("remaining documents = %v, want only doc-climate", docs)
	}
}

func TestDeleteEmptyIsNoop(t *testing.T) {
	store, _ := testStore(t)
	addAll(t, store, sampleDocuments())

	if err := store.Delete(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	docs, err := store.List(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 3 {
		t.Errorf("List returned %d documents after empty delete, want 3", len(docs))
	}
}

func TestQueryRanksExactMatchFirst(t *testing.T) {
	store, _ := testStore(t)
	docs := sampleDocuments()
	addAll(t, store, docs)

	// The mock embedder is deterministic, so querying with a document's
	// own abstract must rank that document first with the top score.
	candidates, conv, err := store.Query(context.Background(), docs[2].Abstract, 3)
	if err != nil {
		t.Fatal(err)
	}
	if conv != BoundedSimilarity {
		t.Fatalf("convention = %v, want BoundedSimilarity", conv)
	}
	if len(candidates) != 3 {
		t.Fatalf("Query returned %d candidates, want 3", len(candidates))
	}
	if candidates[0].Doc.ID != "doc-climate" {
		t.Errorf("top candidate = %s, want doc-climate", candidates[0].Doc.ID)
	}
	if candidates[0].Score < 0.999 {
		t.Errorf("exact-match score = %f, want ~1", candidates[0].Score)
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score > candidates[i-1].Score {
			t.Errorf("candidates not sorted by descending score at %d", i)
		}
	}
}

func TestQueryTruncatesToK(t *testing.T) {
	store, _ := testStore(t)
	addAll(t, store, sampleDocuments())

	candidates, _, err := store.Query(context.Background(), "sparse attention", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 2 {
		t.Errorf("Query returned %d candidates, want 2", len(candidates))
	}
}

func TestQueryScoresBounded(t *testing.T) {
	store, _ := testStore(t)
	addAll(t, store, sampleDocuments())

	candidates, _, err := store.Query(context.Background(), "anything at all", 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range candidates {
		if c.Score < 0 || c.Score > 1 {
			t.Errorf("score %f for %s outside [0,1]", c.Score, c.Doc.ID)
		}
	}
}

func TestCorruptAuthorsRecord(t *testing.T) {
	store, idx := testStore(t)
	docs := sampleDocuments()
	addAll(t, store, docs)

	_, err := idx.db.Exec(`UPDATE documents SET authors = 'not-json' WHERE id = ?`, "doc-protein")
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.Get(context.Background(), "doc-protein")
	if !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("err = %v, want ErrCorruptRecord", err)
	}
}

func TestExportFormats(t *testing.T) {
	store, _ := testStore(t)
	addAll(t, store, sampleDocuments())
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "export.yaml")
	if err := store.ExportYAML(context.Background(), yamlPath); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML []ExportEntry
	if err := yaml.Unmarshal(data, &fromYAML); err != nil {
		t.Fatal(err)
	}
	if len(fromYAML) != 3 {
		t.Errorf("YAML export has %d entries, want 3", len(fromYAML))
	}

	jsonPath := filepath.Join(dir, "export.json")
	if err := store.ExportJSON(context.Background(), jsonPath); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var fromJSON []ExportEntry
	if err := json.Unmarshal(data, &fromJSON); err != nil {
		t.Fatal(err)
	}
	if len(fromJSON) != 3 {
		t.Errorf("JSON export has %d entries, want 3", len(fromJSON))
	}
}

func TestBoundedCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 0}, b: []float32{1, 0}, want: 1},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: 0},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := boundedCosine(tt.a, tt.b)
			if got < tt.want-1e-6 || got > tt.want+1e-6 {
				t.Errorf("boundedCosine = %f, want %f", got, tt.want)
			}
		})
	}
}
