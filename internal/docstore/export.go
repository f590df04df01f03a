// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/samuel-halstead/research-assistant/pkg/types"
)

// ExportEntry is one document in an export file.
type ExportEntry struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Abstract string   `json:"abstract" yaml:"abstract"`
	Authors  []string `json:"authors" yaml:"authors"`
	Language string   `json:"language,omitempty" yaml:"language,omitempty"`
}

// ExportYAML writes the whole collection to path as YAML.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the whole collection to path as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	docs, err := s.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing for export: %w", err)
	}
	entries := make([]ExportEntry, len(docs))
	for i, d := range docs {
		entries[i] = exportEntry(d)
	}
	return entries, nil
}

func exportEntry(d types.Document) ExportEntry {
	return ExportEntry{
		ID:       d.ID,
		Title:    d.Title,
		Abstract: d.Abstract,
		Authors:  d.Authors,
		Language: d.Language,
	}
}
