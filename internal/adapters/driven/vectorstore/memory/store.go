// Package memory provides an in-memory vector store with an exact
// cosine-distance scan. It exists for tests and small corpora; the
// chromem adapter is the persistent production store.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/korpus-dev/korpus/internal/core/domain"
	"github.com/korpus-dev/korpus/internal/core/ports/driven"
)

// Store implements driven.VectorStore with a brute-force scan.
type Store struct {
	mu      sync.RWMutex
	records map[string]domain.StoredRecord
}

var _ driven.VectorStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{records: make(map[string]domain.StoredRecord)}
}

// Upsert adds or replaces records keyed by id.
func (s *Store) Upsert(_ context.Context, records []domain.StoredRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("%w: record id is empty", domain.ErrInvalidInput)
		}
		s.records[r.ID] = r
	}
	return nil
}

// Query scans every record, ranks by cosine distance and returns the topK
// nearest. Ties are broken by id so results are deterministic.
func (s *Store) Query(_ context.Context, embedding []float32, topK int, filter map[string]string) ([]domain.SearchResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: topK must be >= 1, got %d", domain.ErrInvalidInput, topK)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.SearchResult, 0, len(s.records))
	for _, r := range s.records {
		if !matchesFilter(r.Metadata, filter) {
			continue
		}
		results = append(results, domain.SearchResult{
			ID:       r.ID,
			Content:  r.Content,
			Metadata: cloneMetadata(r.Metadata),
			Distance: cosineDistance(embedding, r.Embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Delete removes records by id. Missing ids are ignored.
func (s *Store) Delete(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.records, id)
	}
	return nil
}

// Get retrieves a record by id.
func (s *Store) Get(_ context.Context, id string) (*domain.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: record %s", domain.ErrNotFound, id)
	}
	return &r, nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// matchesFilter reports whether metadata satisfies every filter entry.
// A nil or empty filter matches everything.
func matchesFilter(metadata, filter map[string]string) bool {
	for k, v := range filter {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

func cloneMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// cosineDistance returns 1 - cos(a, b). Zero-magnitude vectors are treated
// as maximally distant.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
