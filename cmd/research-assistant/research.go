// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samuel-halstead/research-assistant/internal/enrich"
	"github.com/samuel-halstead/research-assistant/internal/language"
	"github.com/samuel-halstead/research-assistant/internal/llm"
	"github.com/samuel-halstead/research-assistant/internal/pipeline"
	"github.com/samuel-halstead/research-assistant/internal/relevance"
	"github.com/samuel-halstead/research-assistant/internal/retrieve"
	"github.com/samuel-halstead/research-assistant/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Answer a research query over the document collection",
	Long: `Research retrieves the documents closest to the query, filters them
through the confidence threshold and a model relevance check, and returns
the survivors with a comparison or summary written in the query's language.
A query with no relevant documents returns are_relevant_documents=false
without any generation call.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyResearchFlags(cmd, &cfg)

	store, closeStore, err := openStore(cmd, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	logger := newLogger(cmd)
	client := llm.NewOpenAIClient(cfg.LLM)

	p := pipeline.New(
		retrieve.NewRetriever(store, cfg.Retriever, logger),
		language.NewDetector(),
		relevance.NewChecker(client, cfg.Relevance, logger),
		enrich.NewEngine(client, logger),
		cfg.Relevance,
		cfg.Pipeline,
		logger,
	)

	response, err := p.Research(context.Background(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(response)
}

func applyResearchFlags(cmd *cobra.Command, cfg *types.AssistantConfig) {
	if v, _ := cmd.Flags().GetString("mode"); v != "" {
		cfg.Pipeline.Mode = types.ResponseMode(v)
	}
	if v, _ := cmd.Flags().GetFloat64("confidence-threshold"); v != 0 {
		cfg.Relevance.ConfidenceThreshold = v
	}
	if v, _ := cmd.Flags().GetInt("node-top-k"); v != 0 {
		cfg.Retriever.NodeTopK = v
	}
	if v, _ := cmd.Flags().GetInt("document-top-k"); v != 0 {
		cfg.Retriever.DocumentTopK = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.LLM.Model = v
	}
}

func init() {
	researchCmd.Flags().String("mode", "", "response shape: summary or comparison (default comparison)")
	researchCmd.Flags().Float64("confidence-threshold", 0, "minimum similarity to retain a document (default 0.7)")
	researchCmd.Flags().Int("node-top-k", 0, "raw candidate pool size (default 20)")
	researchCmd.Flags().Int("document-top-k", 0, "distinct documents returned per query (default 3)")
	researchCmd.Flags().String("model", "", "chat model for relevance and generation (default gpt-4o-mini)")

	rootCmd.AddCommand(researchCmd)
}
