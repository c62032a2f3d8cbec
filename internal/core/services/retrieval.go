package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/korpus-dev/korpus/internal/core/domain"
	"github.com/korpus-dev/korpus/internal/core/ports/driven"
	"github.com/korpus-dev/korpus/internal/core/ports/driving"
	"github.com/korpus-dev/korpus/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService answers similarity queries over the ingested corpus.
type RetrievalService struct {
	embedder    driven.EmbeddingService
	store       driven.VectorStore
	defaultTopK int
}

// NewRetrievalService creates a new retrieval service.
// defaultTopK is used when a caller passes topK <= 0.
func NewRetrievalService(embedder driven.EmbeddingService, store driven.VectorStore, defaultTopK int) *RetrievalService {
	if defaultTopK < 1 {
		defaultTopK = 3
	}
	return &RetrievalService{
		embedder:    embedder,
		store:       store,
		defaultTopK: defaultTopK,
	}
}

// Search embeds the query and returns the topK nearest chunks ordered by
// ascending distance. No similarity threshold is applied here.
func (s *RetrievalService) Search(ctx context.Context, query string, topK int, filter map[string]string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", domain.ErrEmbedding, err)
	}

	results, err := s.store.Query(ctx, embedding, topK, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: querying store: %v", domain.ErrStore, err)
	}

	logger.Debug("query returned %d results (topK=%d)", len(results), topK)
	return results, nil
}
