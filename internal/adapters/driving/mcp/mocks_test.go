package mcp

import (
	"context"

	"github.com/korpus-dev/korpus/internal/core/domain"
	"github.com/korpus-dev/korpus/internal/core/ports/driving"
)

// mockContextService is a mock implementation of driving.ContextService.
type mockContextService struct {
	resp domain.ContextResponse
	err  error

	gotQuery     string
	gotMaxLength int
	gotFilter    map[string]string
}

func (m *mockContextService) GetContext(_ context.Context, query string, maxLength int, filter map[string]string) (domain.ContextResponse, error) {
	m.gotQuery = query
	m.gotMaxLength = maxLength
	m.gotFilter = filter
	return m.resp, m.err
}

func (m *mockContextService) Assemble(_ []domain.SearchResult, _ int) domain.ContextResponse {
	return m.resp
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.SearchResult
	err     error

	gotQuery string
	gotTopK  int
}

func (m *mockRetrievalService) Search(_ context.Context, query string, topK int, _ map[string]string) ([]domain.SearchResult, error) {
	m.gotQuery = query
	m.gotTopK = topK
	return m.results, m.err
}

// mockStatsService is a mock implementation of driving.StatsService.
type mockStatsService struct {
	stats driving.Stats
	err   error
}

func (m *mockStatsService) Stats(_ context.Context) (driving.Stats, error) {
	return m.stats, m.err
}
