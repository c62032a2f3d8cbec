// Package cli implements the korpus command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/korpus-dev/korpus/internal/adapters/driven/config"
	"github.com/korpus-dev/korpus/internal/adapters/driven/embedding/ollama"
	"github.com/korpus-dev/korpus/internal/adapters/driven/embedding/openai"
	registrysqlite "github.com/korpus-dev/korpus/internal/adapters/driven/registry/sqlite"
	"github.com/korpus-dev/korpus/internal/adapters/driven/vectorstore/chromem"
	"github.com/korpus-dev/korpus/internal/chunker"
	"github.com/korpus-dev/korpus/internal/core/domain"
	"github.com/korpus-dev/korpus/internal/core/ports/driven"
	"github.com/korpus-dev/korpus/internal/core/ports/driving"
	"github.com/korpus-dev/korpus/internal/core/services"
	"github.com/korpus-dev/korpus/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	cfgPath string
	verbose bool
)

// Wired services. Commands check for nil so tests can inject mocks.
var (
	cfg              config.Config
	ingestService    driving.IngestService
	retrievalService driving.RetrievalService
	contextService   driving.ContextService
	statsService     driving.StatsService

	closers []func() error
)

var rootCmd = &cobra.Command{
	Use:   "korpus",
	Short: "Wiki context retrieval for AI assistants",
	Long: `korpus crawls a wiki, chunks and embeds its pages into a local
vector store, and serves grounded context to AI assistants over the
Model Context Protocol.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)

		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.korpus/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// initServices wires the service graph from configuration. Services
// already set (by tests) are left alone.
func initServices() error {
	if retrievalService != nil {
		return nil
	}

	ch, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return err
	}

	embedder, err := newEmbedder()
	if err != nil {
		return err
	}
	closers = append(closers, embedder.Close)

	if err := embedder.Ping(context.Background()); err != nil {
		return fmt.Errorf("embedding service %s unreachable: %w", embedder.ModelName(), err)
	}

	if cfg.Embedding.Dimensions > 0 && cfg.Embedding.Dimensions != embedder.Dimensions() {
		return fmt.Errorf("%w: configured %d embedding dimensions but model %s produces %d",
			domain.ErrConfig, cfg.Embedding.Dimensions, embedder.ModelName(), embedder.Dimensions())
	}

	storePath, err := cfg.ResolveStorePath()
	if err != nil {
		return err
	}
	store, err := chromem.New(chromem.Config{
		Path:       storePath,
		Collection: cfg.Store.Collection,
		Compress:   cfg.Store.Compress,
	})
	if err != nil {
		return err
	}
	closers = append(closers, store.Close)

	registry, err := registrysqlite.New(cfg.DataDir)
	if err != nil {
		return err
	}
	closers = append(closers, registry.Close)

	ingestService = services.NewIngestService(ch, embedder, store, registry)
	retrievalService = services.NewRetrievalService(embedder, store, cfg.Retrieval.TopK)
	contextService = services.NewContextService(retrievalService, cfg.Retrieval.SimilarityThreshold, cfg.Retrieval.MaxContextLength)
	statsService = services.NewStatsService(store, registry, embedder)

	logger.Debug("services wired: store=%s model=%s", storePath, embedder.ModelName())
	return nil
}

// newEmbedder builds the configured embedding service.
func newEmbedder() (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return openai.New(openai.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	default:
		return ollama.New(ollama.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil
	}
}

func closeServices() {
	for _, c := range closers {
		c() //nolint:errcheck
	}
	closers = nil
}
