// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-assistant CLI.
// It manages a document collection and answers research queries over it:
// documents are embedded on ingest, retrieved by similarity, filtered for
// relevance, and enriched with a model-generated comparison or summary.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/samuel-halstead/research-assistant/internal/docstore"
	"github.com/samuel-halstead/research-assistant/internal/embed"
	"github.com/samuel-halstead/research-assistant/internal/secrets"
	"github.com/samuel-halstead/research-assistant/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the research-assistant CLI.
var rootCmd = &cobra.Command{
	Use:   "research-assistant",
	Short: "Retrieval-backed research over a document collection",
	Long: `research-assistant manages a collection of research documents and answers
queries over it. Documents are embedded when added; a query retrieves the
closest documents, filters them through a confidence threshold and a model
relevance check, and returns a comparison or summary in the query's own
language.

Use the documents subcommand to manage the collection and the research
subcommand to ask questions over it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-assistant.yaml or ~/.config/research-assistant/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable structured debug logging")
	rootCmd.PersistentFlags().String("backend", "", "vector index backend: sqlite or qdrant (default sqlite)")
	rootCmd.PersistentFlags().String("data-dir", "data", "base directory for the sqlite backend")
	rootCmd.PersistentFlags().String("qdrant-url", "", "Qdrant HTTP API base URL (qdrant backend)")
	rootCmd.PersistentFlags().String("collection", "", "vector collection name (default documents)")
	rootCmd.PersistentFlags().String("openai-api-key", "", "OpenAI API key (default: .secrets/openai-api-key)")
	rootCmd.PersistentFlags().Bool("mock-embedder", false, "use the deterministic offline embedder instead of the OpenAI API")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-assistant")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-assistant"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_ASSISTANT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges the config file, environment, and persistent flags into
// one AssistantConfig. Flags win over the file; secrets fill empty keys.
func loadConfig(cmd *cobra.Command) (types.AssistantConfig, error) {
	var cfg types.AssistantConfig
	// Config structs carry json tags in snake_case; point the decoder at them
	// and accept "60s"-style durations.
	err := viper.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "json"
		dc.DecodeHook = mapstructure.StringToTimeDurationHookFunc()
	})
	if err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Store.Backend = types.StoreBackend(v)
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = types.BackendSQLite
	}
	// The data-dir flag has a non-empty default; only its explicit use
	// overrides a config-file value.
	if v, _ := cmd.Flags().GetString("data-dir"); cmd.Flags().Changed("data-dir") || cfg.Store.DataDir == "" {
		cfg.Store.DataDir = v
	}
	if v, _ := cmd.Flags().GetString("qdrant-url"); v != "" {
		cfg.Store.QdrantURL = v
	}
	if v, _ := cmd.Flags().GetString("collection"); v != "" {
		cfg.Store.Collection = v
	}

	flagKey, _ := cmd.Flags().GetString("openai-api-key")
	cfg.Embedding.APIKey = loadedSecrets.Get("openai-api-key", firstOf(flagKey, cfg.Embedding.APIKey))
	cfg.LLM.APIKey = loadedSecrets.Get("openai-api-key", firstOf(flagKey, cfg.LLM.APIKey))
	cfg.Store.QdrantAPIKey = loadedSecrets.Get("qdrant-api-key", cfg.Store.QdrantAPIKey)

	return cfg, nil
}

// firstOf returns the first non-empty string.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// newLogger returns a development logger when --verbose is set, a no-op
// logger otherwise.
func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openStore builds the document store from the resolved config.
// The returned close function releases the backing index.
func openStore(cmd *cobra.Command, cfg types.AssistantConfig) (*docstore.Store, func() error, error) {
	embedder := newEmbedder(cmd, cfg)

	switch cfg.Store.Backend {
	case types.BackendQdrant:
		idx, err := docstore.NewQdrantIndex(cfg.Store, embedder.Dimension())
		if err != nil {
			return nil, nil, err
		}
		return docstore.NewStore(idx, embedder, newLogger(cmd)), func() error { return nil }, nil
	case types.BackendSQLite:
		idx, err := docstore.NewSQLiteIndex(cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		return docstore.NewStore(idx, embedder, newLogger(cmd)), idx.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend %q: use sqlite or qdrant", cfg.Store.Backend)
	}
}

func newEmbedder(cmd *cobra.Command, cfg types.AssistantConfig) embed.Embedder {
	if mock, _ := cmd.Flags().GetBool("mock-embedder"); mock {
		return embed.NewMock(cfg.Embedding.Dimension)
	}
	return embed.NewOpenAIEmbedder(cfg.Embedding)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
