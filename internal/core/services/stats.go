package services

import (
	"context"
	"fmt"

	"github.com/korpus-dev/korpus/internal/core/domain"
	"github.com/korpus-dev/korpus/internal/core/ports/driven"
	"github.com/korpus-dev/korpus/internal/core/ports/driving"
)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService reports corpus statistics for diagnostics.
type StatsService struct {
	store    driven.VectorStore
	registry driven.Registry
	embedder driven.EmbeddingService
}

// NewStatsService creates a new stats service.
func NewStatsService(store driven.VectorStore, registry driven.Registry, embedder driven.EmbeddingService) *StatsService {
	return &StatsService{
		store:    store,
		registry: registry,
		embedder: embedder,
	}
}

// Stats returns corpus-level counters.
func (s *StatsService) Stats(ctx context.Context) (driving.Stats, error) {
	records, err := s.store.Count(ctx)
	if err != nil {
		return driving.Stats{}, fmt.Errorf("%w: counting records: %v", domain.ErrStore, err)
	}

	docs, err := s.registry.List(ctx)
	if err != nil {
		return driving.Stats{}, fmt.Errorf("%w: listing documents: %v", domain.ErrStore, err)
	}

	return driving.Stats{
		Records:        records,
		Documents:      len(docs),
		EmbeddingModel: s.embedder.ModelName(),
		Dimensions:     s.embedder.Dimensions(),
	}, nil
}
