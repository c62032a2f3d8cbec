package cli

import (
	"context"

	"github.com/korpus-dev/korpus/internal/core/domain"
	"github.com/korpus-dev/korpus/internal/core/ports/driving"
)

// --- Mock services for command tests ---

type mockRetrievalService struct {
	results []domain.SearchResult
	err     error
}

func (m *mockRetrievalService) Search(_ context.Context, _ string, _ int, _ map[string]string) ([]domain.SearchResult, error) {
	return m.results, m.err
}

type mockContextService struct {
	resp domain.ContextResponse
	err  error
}

func (m *mockContextService) GetContext(_ context.Context, _ string, _ int, _ map[string]string) (domain.ContextResponse, error) {
	return m.resp, m.err
}

func (m *mockContextService) Assemble(_ []domain.SearchResult, _ int) domain.ContextResponse {
	return m.resp
}

type mockIngestService struct {
	ingested int
	err      error
	removed  []string
}

func (m *mockIngestService) Ingest(_ context.Context, docs []domain.Document) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.ingested += len(docs)
	return len(docs), nil
}

func (m *mockIngestService) Remove(_ context.Context, documentID string) error {
	m.removed = append(m.removed, documentID)
	return m.err
}

type mockStatsService struct {
	stats driving.Stats
	err   error
}

func (m *mockStatsService) Stats(_ context.Context) (driving.Stats, error) {
	return m.stats, m.err
}

// setupTestServices injects mock services so commands run without real
// adapters. The returned cleanup restores the previous wiring.
func setupTestServices() func() {
	oldIngest := ingestService
	oldRetrieval := retrievalService
	oldContext := contextService
	oldStats := statsService

	ingestService = &mockIngestService{}
	retrievalService = &mockRetrievalService{
		results: []domain.SearchResult{{
			ID:      "doc1:0",
			Content: "mock result content",
			Metadata: map[string]string{
				domain.MetaTitle: "Mock Title",
				domain.MetaURL:   "https://wiki.example.com/doc1",
			},
			Distance: 0.1,
		}},
	}
	contextService = &mockContextService{
		resp: domain.ContextResponse{
			Context: "Mock Title:\nmock result content",
			Sources: []domain.SourceRecord{{
				Title:      "Mock Title",
				URL:        "https://wiki.example.com/doc1",
				Content:    "mock result content",
				Similarity: 0.9,
			}},
		},
	}
	statsService = &mockStatsService{}

	return func() {
		ingestService = oldIngest
		retrievalService = oldRetrieval
		contextService = oldContext
		statsService = oldStats
	}
}
