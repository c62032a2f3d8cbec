package driving

import (
	"context"

	"github.com/korpus-dev/korpus/internal/core/domain"
)

// IngestService runs the ingestion pipeline: chunk, embed, upsert.
type IngestService interface {
	// Ingest processes the documents and returns how many were ingested.
	// Documents whose content is unchanged since the last ingestion are
	// skipped and not counted. By default the first failing document
	// aborts the batch with a *domain.IngestError naming it; a service
	// configured to continue on error collects per-document failures
	// instead.
	//
	// Ingestion is not transactional across the chunks of one document:
	// a cancelled ingest may leave a document partially stored.
	Ingest(ctx context.Context, docs []domain.Document) (int, error)

	// Remove deletes a document's chunks from the store and its registry
	// entry. Unknown documents are not an error.
	Remove(ctx context.Context, documentID string) error
}
