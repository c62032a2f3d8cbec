// Package chromem implements the vector store port on chromem-go, an
// embedded vector database persisted to local disk.
package chromem

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/korpus-dev/korpus/internal/core/domain"
	"github.com/korpus-dev/korpus/internal/core/ports/driven"
)

// DefaultCollection is the collection name used when none is configured.
const DefaultCollection = "korpus"

// Config controls where and how the store persists.
type Config struct {
	// Path is the on-disk database directory. Empty means in-memory.
	Path string

	// Collection is the collection name. Defaults to DefaultCollection.
	Collection string

	// Compress enables gzip compression of persisted records.
	Compress bool
}

// Store implements driven.VectorStore backed by a chromem-go collection.
type Store struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
}

var _ driven.VectorStore = (*Store)(nil)

// New opens (or creates) the database and collection.
func New(cfg Config) (*Store, error) {
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	var db *chromemgo.DB
	var err error
	if cfg.Path == "" {
		db = chromemgo.NewDB()
	} else {
		db, err = chromemgo.NewPersistentDB(cfg.Path, cfg.Compress)
		if err != nil {
			return nil, fmt.Errorf("%w: opening vector database at %s: %v", domain.ErrStore, cfg.Path, err)
		}
	}

	// Embeddings are always supplied by the caller, so no embedding
	// function is registered on the collection.
	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: opening collection %s: %v", domain.ErrStore, cfg.Collection, err)
	}

	return &Store{db: db, collection: collection}, nil
}

// Upsert adds or replaces records keyed by id. chromem-go rejects
// duplicate ids on add, so existing ids are deleted first.
func (s *Store) Upsert(ctx context.Context, records []domain.StoredRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]chromemgo.Document, 0, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("%w: record id is empty", domain.ErrInvalidInput)
		}
		docs = append(docs, chromemgo.Document{
			ID:        r.ID,
			Content:   r.Content,
			Metadata:  r.Metadata,
			Embedding: r.Embedding,
		})
		ids = append(ids, r.ID)
	}

	if err := s.deletePresent(ctx, ids); err != nil {
		return fmt.Errorf("%w: replacing records: %v", domain.ErrStore, err)
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("%w: adding records: %v", domain.ErrStore, err)
	}
	return nil
}

// Query returns the topK nearest records. chromem-go reports cosine
// similarity, converted here to the distance convention of the port.
func (s *Store) Query(ctx context.Context, embedding []float32, topK int, filter map[string]string) ([]domain.SearchResult, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: topK must be >= 1, got %d", domain.ErrInvalidInput, topK)
	}

	// chromem-go rejects NResults larger than the collection.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK > count {
		topK = count
	}

	hits, err := s.collection.QueryWithOptions(ctx, chromemgo.QueryOptions{
		QueryEmbedding: embedding,
		NResults:       topK,
		Where:          filter,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: querying collection: %v", domain.ErrStore, err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, domain.SearchResult{
			ID:       hit.ID,
			Content:  hit.Content,
			Metadata: hit.Metadata,
			Distance: 1 - float64(hit.Similarity),
		})
	}

	// chromem-go leaves the order of equal similarities unspecified;
	// the port promises ties broken by id.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})
	return results, nil
}

// Delete removes records by id. Missing ids are ignored.
func (s *Store) Delete(ctx context.Context, ids []string) error {
	if err := s.deletePresent(ctx, ids); err != nil {
		return fmt.Errorf("%w: deleting records: %v", domain.ErrStore, err)
	}
	return nil
}

// deletePresent removes the subset of ids that exist in the collection.
// chromem-go errors on unknown ids, so they are filtered out first.
func (s *Store) deletePresent(ctx context.Context, ids []string) error {
	present := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := s.collection.GetByID(ctx, id); err == nil {
			present = append(present, id)
		}
	}
	if len(present) == 0 {
		return nil
	}
	return s.collection.Delete(ctx, nil, nil, present...)
}

// Get retrieves a record by id.
func (s *Store) Get(ctx context.Context, id string) (*domain.StoredRecord, error) {
	doc, err := s.collection.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: record %s", domain.ErrNotFound, id)
	}
	return &domain.StoredRecord{
		ID:        doc.ID,
		Embedding: doc.Embedding,
		Content:   doc.Content,
		Metadata:  doc.Metadata,
	}, nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) (int, error) {
	return s.collection.Count(), nil
}

// Close releases resources. chromem-go persists on write, so there is
// nothing to flush.
func (s *Store) Close() error {
	return nil
}
