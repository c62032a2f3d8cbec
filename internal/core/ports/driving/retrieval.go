package driving

import (
	"context"

	"github.com/korpus-dev/korpus/internal/core/domain"
)

// RetrievalService answers similarity queries over the ingested corpus.
type RetrievalService interface {
	// Search embeds the query and returns the topK nearest chunks ordered
	// by ascending distance. Results carry raw distances; no similarity
	// threshold is applied here, so callers needing ranked results are not
	// forced through the context policy. topK <= 0 selects the configured
	// default. An empty corpus or query yields empty results, not an error.
	Search(ctx context.Context, query string, topK int, filter map[string]string) ([]domain.SearchResult, error)
}

// ContextService assembles bounded context strings for LLM callers.
type ContextService interface {
	// GetContext retrieves relevant chunks for the query, applies the
	// similarity threshold, and assembles a context string truncated to
	// maxLength bytes plus the ordered source list. maxLength <= 0 selects
	// the configured default. No matches above threshold is a valid empty
	// response, never an error.
	GetContext(ctx context.Context, query string, maxLength int, filter map[string]string) (domain.ContextResponse, error)

	// Assemble applies the threshold and builds a ContextResponse from
	// already-ranked results. Pure; exposed for callers that rank
	// separately.
	Assemble(results []domain.SearchResult, maxLength int) domain.ContextResponse
}

// Stats reports corpus-level counters for diagnostics.
type Stats struct {
	Records        int    `json:"records"`
	Documents      int    `json:"documents"`
	EmbeddingModel string `json:"embedding_model"`
	Dimensions     int    `json:"dimensions"`
}

// StatsService reports corpus statistics.
type StatsService interface {
	Stats(ctx context.Context) (Stats, error)
}
