package driven

import (
	"context"

	"github.com/korpus-dev/korpus/internal/core/domain"
)

// VectorStore persists chunk records and answers similarity queries.
//
// Distance convention: cosine distance, non-negative with 0 meaning
// identical. Query results are ordered by ascending distance, ties broken
// by id so that a fixed corpus and query embedding always produce the same
// order. The store may return fewer than topK results when the corpus is
// smaller.
//
// Records are never mutated in place: re-ingesting a document deletes its
// old chunk records and adds new ones.
type VectorStore interface {
	// Upsert adds or replaces records keyed by record id.
	Upsert(ctx context.Context, records []domain.StoredRecord) error

	// Query returns the topK nearest records to the embedding, optionally
	// restricted to records whose metadata matches every filter entry.
	// topK must be >= 1.
	Query(ctx context.Context, embedding []float32, topK int, filter map[string]string) ([]domain.SearchResult, error)

	// Delete removes records by id. Missing ids are not an error.
	Delete(ctx context.Context, ids []string) error

	// Get retrieves a single record by id.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.StoredRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
