// Package config loads korpus configuration from a TOML file with
// environment variable overrides.
//
// Configuration is read from ~/.korpus/config.toml by default. Every value
// has a working default; secrets and endpoints can be supplied through
// KORPUS_* environment variables so they never need to live in the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/korpus-dev/korpus/internal/core/domain"
)

// Default values applied when the file and environment are silent.
const (
	DefaultChunkSize         = 512
	DefaultChunkOverlap      = 50
	DefaultTopK              = 3
	DefaultSimilarityScore   = 0.7
	DefaultMaxContextLength  = 1000
	DefaultEmbeddingProvider = "ollama"
	DefaultVectorCollection  = "korpus"
	DefaultWikiRatePerSecond = 5.0
	DefaultWikiBurst         = 10
	DefaultWikiMaxPages      = 1000
)

// EmbeddingConfig selects and tunes the embedding provider.
type EmbeddingConfig struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	// Dimensions overrides the provider's default embedding size.
	Dimensions int `toml:"dimensions"`
}

// StoreConfig controls the persistent vector store.
type StoreConfig struct {
	// Path is the vector database directory. Empty means
	// <data_dir>/vectors.
	Path       string `toml:"path"`
	Collection string `toml:"collection"`
	Compress   bool   `toml:"compress"`
}

// ChunkingConfig tunes the document chunker.
type ChunkingConfig struct {
	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`
}

// RetrievalConfig tunes search and context assembly.
type RetrievalConfig struct {
	TopK                int     `toml:"top_k"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	MaxContextLength    int     `toml:"max_context_length"`
}

// WikiConfig points the crawler at a wiki instance.
type WikiConfig struct {
	BaseURL   string   `toml:"base_url"`
	Token     string   `toml:"token"`
	SpaceKeys []string `toml:"space_keys"`
	MaxPages  int      `toml:"max_pages"`
	// RatePerSecond caps outgoing API requests.
	RatePerSecond float64 `toml:"rate_per_second"`
	Burst         int     `toml:"burst"`
}

// Config is the full korpus configuration.
type Config struct {
	// DataDir holds the registry database and vector store.
	// Defaults to ~/.korpus/data.
	DataDir string `toml:"data_dir"`

	Embedding EmbeddingConfig `toml:"embedding"`
	Store     StoreConfig     `toml:"store"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Wiki      WikiConfig      `toml:"wiki"`
}

// Default returns a Config with every field set to its default.
func Default() Config {
	return Config{
		Embedding: EmbeddingConfig{Provider: DefaultEmbeddingProvider},
		Store:     StoreConfig{Collection: DefaultVectorCollection},
		Chunking:  ChunkingConfig{Size: DefaultChunkSize, Overlap: DefaultChunkOverlap},
		Retrieval: RetrievalConfig{
			TopK:                DefaultTopK,
			SimilarityThreshold: DefaultSimilarityScore,
			MaxContextLength:    DefaultMaxContextLength,
		},
		Wiki: WikiConfig{
			MaxPages:      DefaultWikiMaxPages,
			RatePerSecond: DefaultWikiRatePerSecond,
			Burst:         DefaultWikiBurst,
		},
	}
}

// Load reads configuration from path, falling back to
// ~/.korpus/config.toml when path is empty. A missing file is not an
// error: defaults plus environment overrides apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("%w: getting home directory: %v", domain.ErrConfig, err)
		}
		path = filepath.Join(home, ".korpus", "config.toml")
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file yet - defaults apply
	case err != nil:
		return cfg, fmt.Errorf("%w: reading %s: %v", domain.ErrConfig, path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("%w: parsing %s: %v", domain.ErrConfig, path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides file values with KORPUS_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("KORPUS_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("KORPUS_EMBEDDING_PROVIDER"); v != "" {
		c.Embedding.Provider = v
	}
	if v := os.Getenv("KORPUS_EMBEDDING_MODEL"); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv("KORPUS_EMBEDDING_BASE_URL"); v != "" {
		c.Embedding.BaseURL = v
	}
	if v := os.Getenv("KORPUS_EMBEDDING_API_KEY"); v != "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv("KORPUS_WIKI_BASE_URL"); v != "" {
		c.Wiki.BaseURL = v
	}
	if v := os.Getenv("KORPUS_WIKI_TOKEN"); v != "" {
		c.Wiki.Token = v
	}
	if v := os.Getenv("KORPUS_WIKI_SPACE_KEYS"); v != "" {
		keys := strings.Split(v, ",")
		c.Wiki.SpaceKeys = c.Wiki.SpaceKeys[:0]
		for _, k := range keys {
			if k = strings.TrimSpace(k); k != "" {
				c.Wiki.SpaceKeys = append(c.Wiki.SpaceKeys, k)
			}
		}
	}
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	switch c.Embedding.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrConfig, c.Embedding.Provider)
	}
	if c.Chunking.Size < 1 {
		return fmt.Errorf("%w: chunk size must be >= 1, got %d", domain.ErrConfig, c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("%w: chunk overlap must be in [0, size), got %d", domain.ErrConfig, c.Chunking.Overlap)
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("%w: top_k must be >= 1, got %d", domain.ErrConfig, c.Retrieval.TopK)
	}
	if c.Retrieval.SimilarityThreshold < 0 || c.Retrieval.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity_threshold must be in [0, 1], got %g", domain.ErrConfig, c.Retrieval.SimilarityThreshold)
	}
	if c.Retrieval.MaxContextLength < 1 {
		return fmt.Errorf("%w: max_context_length must be >= 1, got %d", domain.ErrConfig, c.Retrieval.MaxContextLength)
	}
	if c.Wiki.RatePerSecond <= 0 {
		return fmt.Errorf("%w: wiki rate_per_second must be > 0, got %g", domain.ErrConfig, c.Wiki.RatePerSecond)
	}
	return nil
}

// ResolveDataDir returns the data directory, defaulting to ~/.korpus/data.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: getting home directory: %v", domain.ErrConfig, err)
	}
	return filepath.Join(home, ".korpus", "data"), nil
}

// ResolveStorePath returns the vector store directory, defaulting to
// <data_dir>/vectors.
func (c *Config) ResolveStorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dataDir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "vectors"), nil
}
