package services

import (
	"context"
	"strings"

	"github.com/korpus-dev/korpus/internal/core/domain"
	"github.com/korpus-dev/korpus/internal/core/ports/driving"
	"github.com/korpus-dev/korpus/internal/logger"
)

// Ensure ContextService implements the interface.
var _ driving.ContextService = (*ContextService)(nil)

// ContextService assembles bounded context strings for LLM callers.
// The similarity threshold is applied here, not in retrieval, so ranked
// search stays available without the context policy.
type ContextService struct {
	retrieval        driving.RetrievalService
	threshold        float64
	defaultMaxLength int
}

// NewContextService creates a new context service. Results below threshold
// are dropped; defaultMaxLength bounds the context when a caller passes
// maxLength <= 0.
func NewContextService(retrieval driving.RetrievalService, threshold float64, defaultMaxLength int) *ContextService {
	if defaultMaxLength < 1 {
		defaultMaxLength = 1000
	}
	return &ContextService{
		retrieval:        retrieval,
		threshold:        threshold,
		defaultMaxLength: defaultMaxLength,
	}
}

// GetContext retrieves relevant chunks for the query and assembles them
// into a bounded context string with sources.
func (s *ContextService) GetContext(ctx context.Context, query string, maxLength int, filter map[string]string) (domain.ContextResponse, error) {
	results, err := s.retrieval.Search(ctx, query, 0, filter)
	if err != nil {
		return domain.ContextResponse{}, err
	}
	return s.Assemble(results, maxLength), nil
}

// Assemble applies the similarity threshold and builds a ContextResponse
// from already-ranked results. Pure.
//
// The threshold compares the raw similarity 1 - distance, so a result
// beyond opposite (distance > 1) is dropped even at threshold 0; the
// similarity recorded on each source is clamped to [0,1]. The context
// string concatenates "<title>:\n<content>" blocks in rank order,
// separated by blank lines, and is hard-truncated to maxLength bytes.
// Sources always lists every surviving result, including those whose
// text was cut by truncation.
func (s *ContextService) Assemble(results []domain.SearchResult, maxLength int) domain.ContextResponse {
	if maxLength <= 0 {
		maxLength = s.defaultMaxLength
	}

	sources := make([]domain.SourceRecord, 0, len(results))
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		if 1-r.Distance < s.threshold {
			continue
		}
		similarity := r.Similarity()

		title := r.Metadata[domain.MetaTitle]
		sources = append(sources, domain.SourceRecord{
			Title:        title,
			URL:          r.Metadata[domain.MetaURL],
			Content:      r.Content,
			Similarity:   similarity,
			LastModified: r.Metadata[domain.MetaLastModified],
		})
		blocks = append(blocks, title+":\n"+r.Content)
	}

	assembled := strings.Join(blocks, "\n\n")
	if len(assembled) > maxLength {
		assembled = assembled[:maxLength]
	}

	logger.Debug("assembled context of %d bytes from %d sources", len(assembled), len(sources))
	return domain.ContextResponse{
		Context: assembled,
		Sources: sources,
	}
}
