// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samuel-halstead/research-assistant/pkg/types"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage the document collection (add, get, list, delete, export)",
	Long: `Documents manages the research document collection. Adding a document
embeds its abstract and indexes it for similarity search; the collection can
be listed, exported, or pruned by id.`,
}

// --- add subcommand ---

var documentsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a document to the collection",
	Long: `Add embeds the document abstract and stores it in the vector index.
Authors are given as a single ;-separated string. An id is generated when
none is provided.`,
	RunE: runDocumentsAdd,
}

func runDocumentsAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	title, _ := cmd.Flags().GetString("title")
	abstract, _ := cmd.Flags().GetString("abstract")
	authors, _ := cmd.Flags().GetString("authors")
	id, _ := cmd.Flags().GetString("id")

	if abstract == "" {
		return fmt.Errorf("abstract required: it is the text indexed for retrieval")
	}

	doc := types.Document{
		ID:       id,
		Title:    title,
		Abstract: abstract,
		Authors:  types.SplitAuthors(authors),
	}
	if err := store.Add(context.Background(), &doc); err != nil {
		return err
	}

	fmt.Printf("Added document %s\n", doc.ID)
	return nil
}

// --- get subcommand ---

var documentsGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one document by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsGet,
}

func runDocumentsGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	doc, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// --- list subcommand ---

var documentsListCmd = &cobra.Command{
	Use:   "list [id...]",
	Short: "List documents, all or by id",
	Long: `List prints the collection. With ids as arguments only those documents
are shown; unknown ids are omitted.`,
	RunE: runDocumentsList,
}

func runDocumentsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	docs, err := store.List(context.Background(), args)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	if len(docs) == 0 {
		fmt.Println("No documents found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-50s  %s\n", "ID", "Title", "Authors")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, d := range docs {
		title := d.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-50s  %s\n", d.ID, title, strings.Join(d.Authors, "; "))
	}
	fmt.Fprintf(os.Stdout, "\n%d documents\n", len(docs))
	return nil
}

// --- delete subcommand ---

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [id...]",
	Short: "Delete documents by id",
	Long:  `Delete removes documents from the collection. Unknown ids are ignored.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDocumentsDelete,
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Delete(context.Background(), args); err != nil {
		return err
	}
	fmt.Printf("Deleted %d document(s)\n", len(args))
	return nil
}

// --- export subcommand ---

var documentsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the collection to YAML or JSON",
	RunE:  runDocumentsExport,
}

func runDocumentsExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	switch format {
	case "yaml", "":
		if out == "" {
			out = "export.yaml"
		}
		if err := store.ExportYAML(context.Background(), out); err != nil {
			return err
		}
	case "json":
		if out == "" {
			out = "export.json"
		}
		if err := store.ExportJSON(context.Background(), out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Printf("Exported to %s\n", out)
	return nil
}

func init() {
	documentsAddCmd.Flags().String("id", "", "document id (generated when empty)")
	documentsAddCmd.Flags().String("title", "", "document title")
	documentsAddCmd.Flags().String("abstract", "", "document abstract, indexed for retrieval")
	documentsAddCmd.Flags().String("authors", "", "authors as a ;-separated string")

	documentsListCmd.Flags().Bool("json", false, "output documents as JSON")

	documentsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	documentsExportCmd.Flags().String("out", "", "output path (default export.yaml or export.json)")

	documentsCmd.AddCommand(documentsAddCmd)
	documentsCmd.AddCommand(documentsGetCmd)
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	documentsCmd.AddCommand(documentsExportCmd)

	rootCmd.AddCommand(documentsCmd)
}
