package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/korpus-dev/korpus/internal/chunker"
	"github.com/korpus-dev/korpus/internal/core/domain"
	"github.com/korpus-dev/korpus/internal/core/ports/driven"
	"github.com/korpus-dev/korpus/internal/core/ports/driving"
	"github.com/korpus-dev/korpus/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs the ingestion pipeline: chunk, embed, upsert.
type IngestService struct {
	chunker  *chunker.Chunker
	embedder driven.EmbeddingService
	store    driven.VectorStore
	registry driven.Registry

	continueOnError bool
}

// NewIngestService creates a new ingestion service. registry may be nil;
// without one every ingest re-embeds and re-upserts unconditionally and
// Remove has no chunk bookkeeping to act on.
func NewIngestService(
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	registry driven.Registry,
) *IngestService {
	return &IngestService{
		chunker:  ch,
		embedder: embedder,
		store:    store,
		registry: registry,
	}
}

// SetContinueOnError makes Ingest collect per-document failures instead of
// aborting the batch on the first one.
func (s *IngestService) SetContinueOnError(v bool) {
	s.continueOnError = v
}

// Ingest processes the documents and returns how many were ingested.
// Documents whose content hash is unchanged since the last ingestion are
// skipped.
func (s *IngestService) Ingest(ctx context.Context, docs []domain.Document) (int, error) {
	logger.Section("Ingestion")

	var ingested, skipped int
	var failures []error

	for i := range docs {
		doc := &docs[i]

		changed, err := s.ingestOne(ctx, doc)
		if err != nil {
			ingErr := &domain.IngestError{DocumentID: doc.ID, Err: err}
			if !s.continueOnError {
				return ingested, ingErr
			}
			failures = append(failures, ingErr)
			continue
		}
		if changed {
			ingested++
		} else {
			skipped++
		}
	}

	logger.Info("ingested %d documents, skipped %d unchanged, %d failed", ingested, skipped, len(failures))
	return ingested, errors.Join(failures...)
}

// ingestOne processes a single document. It reports false when the
// document was skipped as unchanged.
func (s *IngestService) ingestOne(ctx context.Context, doc *domain.Document) (bool, error) {
	if err := doc.Validate(); err != nil {
		return false, err
	}

	hash := contentHash(doc.Content)

	var prev *driven.IngestRecord
	if s.registry != nil {
		var err error
		prev, err = s.registry.Get(ctx, doc.ID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return false, fmt.Errorf("%w: reading registry for %s: %v", domain.ErrStore, doc.ID, err)
		}
	}
	if prev != nil && prev.ContentHash == hash {
		logger.Debug("document %s unchanged, skipping", doc.ID)
		return false, nil
	}

	chunks := s.chunker.Split(doc.Content)
	if len(chunks) == 0 {
		// Nothing embeddable; drop any stale state and move on.
		if prev != nil {
			if err := s.removeChunks(ctx, doc.ID, prev.ChunkCount); err != nil {
				return false, err
			}
			if err := s.registry.Delete(ctx, doc.ID); err != nil {
				return false, fmt.Errorf("%w: clearing registry for %s: %v", domain.ErrStore, doc.ID, err)
			}
		}
		logger.Debug("document %s produced no chunks", doc.ID)
		return false, nil
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return false, fmt.Errorf("%w: embedding document %s: %v", domain.ErrEmbedding, doc.ID, err)
	}
	if len(embeddings) != len(chunks) {
		return false, fmt.Errorf("%w: embedding document %s: got %d embeddings for %d chunks",
			domain.ErrEmbedding, doc.ID, len(embeddings), len(chunks))
	}

	metadata := snapshotMetadata(doc)
	records := make([]domain.StoredRecord, len(chunks))
	for i, content := range chunks {
		records[i] = domain.StoredRecord{
			ID:        domain.ChunkID(doc.ID, i),
			Embedding: embeddings[i],
			Content:   content,
			Metadata:  metadata,
		}
	}

	// Re-ingestion is delete-then-add so a shrinking document leaves no
	// orphaned chunks behind.
	if prev != nil {
		if err := s.removeChunks(ctx, doc.ID, prev.ChunkCount); err != nil {
			return false, err
		}
	}

	if err := s.store.Upsert(ctx, records); err != nil {
		return false, fmt.Errorf("%w: storing %d chunks for %s: %v", domain.ErrStore, len(records), doc.ID, err)
	}

	if s.registry != nil {
		rec := driven.IngestRecord{
			DocumentID:   doc.ID,
			ContentHash:  hash,
			ChunkCount:   len(chunks),
			LastModified: doc.LastModified,
			IngestedAt:   time.Now().UTC(),
		}
		if err := s.registry.Save(ctx, rec); err != nil {
			return false, fmt.Errorf("%w: recording ingestion of %s: %v", domain.ErrStore, doc.ID, err)
		}
	}

	logger.Debug("document %s: %d chunks ingested", doc.ID, len(chunks))
	return true, nil
}

// Remove deletes a document's chunks and its registry entry.
// Unknown documents are not an error.
func (s *IngestService) Remove(ctx context.Context, documentID string) error {
	if s.registry == nil {
		return nil
	}

	prev, err := s.registry.Get(ctx, documentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: reading registry for %s: %v", domain.ErrStore, documentID, err)
	}

	if err := s.removeChunks(ctx, documentID, prev.ChunkCount); err != nil {
		return err
	}
	if err := s.registry.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("%w: clearing registry for %s: %v", domain.ErrStore, documentID, err)
	}
	return nil
}

// removeChunks deletes the chunk records reconstructed from a previous
// ingestion's chunk count.
func (s *IngestService) removeChunks(ctx context.Context, documentID string, count int) error {
	if count <= 0 {
		return nil
	}

	ids := make([]string, count)
	for i := range ids {
		ids[i] = domain.ChunkID(documentID, i)
	}
	if err := s.store.Delete(ctx, ids); err != nil {
		return fmt.Errorf("%w: deleting %d chunks for %s: %v", domain.ErrStore, count, documentID, err)
	}
	return nil
}

// snapshotMetadata captures the provenance fields stored with every chunk.
// The store is the sole source of truth at query time, so everything a
// SourceRecord needs is carried here.
func snapshotMetadata(doc *domain.Document) map[string]string {
	lastModified := ""
	if !doc.LastModified.IsZero() {
		lastModified = doc.LastModified.UTC().Format(time.RFC3339)
	}

	source := "wiki"
	if doc.Type == "file" {
		source = "file"
	}

	return map[string]string{
		domain.MetaTitle:        doc.Title,
		domain.MetaURL:          doc.URL,
		domain.MetaSpaceKey:     doc.SpaceKey,
		domain.MetaLastModified: lastModified,
		domain.MetaSource:       source,
		domain.MetaDocumentID:   doc.ID,
	}
}

// contentHash returns the hex SHA-256 of the document content.
func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
