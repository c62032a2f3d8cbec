// Package memory provides an in-memory ingestion registry for tests and
// ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/korpus-dev/korpus/internal/core/domain"
	"github.com/korpus-dev/korpus/internal/core/ports/driven"
)

// Registry implements driven.Registry with a mutex-guarded map.
type Registry struct {
	mu      sync.RWMutex
	records map[string]driven.IngestRecord
}

var _ driven.Registry = (*Registry)(nil)

// New creates an empty registry.
func New() *Registry {
	return &Registry{records: make(map[string]driven.IngestRecord)}
}

// Get retrieves the record for a document.
func (r *Registry) Get(_ context.Context, documentID string) (*driven.IngestRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[documentID]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, documentID)
	}
	return &rec, nil
}

// Save stores or replaces a record.
func (r *Registry) Save(_ context.Context, rec driven.IngestRecord) error {
	if rec.DocumentID == "" {
		return fmt.Errorf("%w: document id is empty", domain.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[rec.DocumentID] = rec
	return nil
}

// Delete removes a record. Missing ids are not an error.
func (r *Registry) Delete(_ context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, documentID)
	return nil
}

// List returns all records ordered by document id.
func (r *Registry) List(_ context.Context) ([]driven.IngestRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]driven.IngestRecord, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].DocumentID < records[j].DocumentID
	})
	return records, nil
}

// Close is a no-op for the in-memory registry.
func (r *Registry) Close() error {
	return nil
}
