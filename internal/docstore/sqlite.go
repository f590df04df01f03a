// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/samuel-halstead/research-assistant/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "documents.db"
)

// SQLiteIndex stores document metadata and embeddings in a local SQLite
// database and answers nearest-neighbor queries with a brute-force cosine
// scan. It declares the bounded-similarity convention: cosine values are
// mapped into [0,1] with 1 identical.
type SQLiteIndex struct {
	db *sql.DB
}

// NewSQLiteIndex opens or creates the document database at
// dataDir/index/documents.db, creating the schema if needed.
func NewSQLiteIndex(cfg types.StoreConfig) (*SQLiteIndex, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	idx := &SQLiteIndex{db: db}
	if err := idx.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return idx, nil
}

// Close releases the database connection.
func (x *SQLiteIndex) Close() error {
	return x.db.Close()
}

func (x *SQLiteIndex) createSchema() error {
	_, err := x.db.Exec(
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT,
			abstract TEXT,
			authors TEXT NOT NULL,
			language TEXT,
			embedding BLOB NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Convention reports the bounded-similarity convention.
func (x *SQLiteIndex) Convention() ScoreConvention { return BoundedSimilarity }

// Add persists the document metadata and embedding under doc.ID, replacing
// any previous record with the same id.
func (x *SQLiteIndex) Add(ctx context.Context, doc types.Document, vector []float32) error {
	authorsJSON, err := json.Marshal(doc.Authors)
	if err != nil {
		return fmt.Errorf("encoding authors: %w", err)
	}

	_, err = x.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO documents (id, title, abstract, authors, language, embedding)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.Abstract, string(authorsJSON), doc.Language, encodeVector(vector),
	)
	if err != nil {
		return fmt.Errorf("%w: inserting document: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Get returns the document stored under id, or ErrNotFound.
func (x *SQLiteIndex) Get(ctx context.Context, id string) (types.Document, error) {
	row := x.db.QueryRowContext(ctx,
		`SELECT id, title, abstract, authors, language FROM documents WHERE id = ?`, id)

	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return types.Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, err
}

// List returns all documents, or the subset matching ids. Ids without a
// matching record are silently omitted.
func (x *SQLiteIndex) List(ctx context.Context, ids []string) ([]types.Document, error) {
	query := `SELECT id, title, abstract, authors, language FROM documents`
	var args []any
	if len(ids) > 0 {
		query += ` WHERE id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`
		for _, id := range ids {
			args = append(args, id)
		}
	}
	query += ` ORDER BY id`

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying documents: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Delete removes the given ids. Missing ids are ignored.
func (x *SQLiteIndex) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := `DELETE FROM documents WHERE id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	if _, err := x.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: deleting documents: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Query scans every stored embedding, scores it against the query vector,
// and returns the k best candidates in descending similarity order.
func (x *SQLiteIndex) Query(ctx context.Context, vector []float32, k int) ([]Candidate, error) {
	rows, err := x.db.QueryContext(ctx,
		`SELECT id, title, abstract, authors, language, embedding FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying embeddings: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var (
			doc         types.Document
			authorsJSON string
			blob        []byte
		)
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Abstract, &authorsJSON, &doc.Language, &blob); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &doc.Authors); err != nil {
			return nil, fmt.Errorf("%w: authors for %s: %v", ErrCorruptRecord, doc.ID, err)
		}

		stored, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("%w: embedding for %s: %v", ErrCorruptRecord, doc.ID, err)
		}

		candidates = append(candidates, Candidate{
			Doc:   doc,
			Score: boundedCosine(vector, stored),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading rows: %v", ErrStorageUnavailable, err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// scanDocument decodes one metadata row via the given scan function.
func scanDocument(scan func(...any) error) (types.Document, error) {
	var (
		doc         types.Document
		authorsJSON string
	)
	if err := scan(&doc.ID, &doc.Title, &doc.Abstract, &authorsJSON, &doc.Language); err != nil {
		return types.Document{}, err
	}
	if err := json.Unmarshal([]byte(authorsJSON), &doc.Authors); err != nil {
		return types.Document{}, fmt.Errorf("%w: authors for %s: %v", ErrCorruptRecord, doc.ID, err)
	}
	return doc, nil
}

// boundedCosine maps the cosine of two vectors from [-1,1] into [0,1],
// honoring the bounded-similarity convention.
func boundedCosine(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return (cos + 1) / 2
}

// encodeVector packs float32 components little-endian.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return buf
}

// decodeVector unpacks an embedding blob written by encodeVector.
func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d not a multiple of 4", len(buf))
	}
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return vec, nil
}
