package driven

import (
	"context"
	"time"
)

// IngestRecord tracks one ingested document for re-ingestion bookkeeping.
type IngestRecord struct {
	// DocumentID is the document's stable identifier.
	DocumentID string

	// ContentHash is a hash of the document content at ingestion time.
	// An unchanged hash means re-ingestion can be skipped entirely.
	ContentHash string

	// ChunkCount is how many chunks the document produced. Together with
	// the deterministic chunk id scheme this is enough to reconstruct the
	// ids to delete before re-adding.
	ChunkCount int

	// LastModified mirrors the document's last modification time.
	LastModified time.Time

	// IngestedAt is when the document was last ingested.
	IngestedAt time.Time
}

// Registry persists ingestion bookkeeping so that re-ingesting a document
// replaces its chunks instead of duplicating them.
type Registry interface {
	// Get retrieves the record for a document.
	// Returns domain.ErrNotFound when the document was never ingested.
	Get(ctx context.Context, documentID string) (*IngestRecord, error)

	// Save stores or replaces a record.
	Save(ctx context.Context, rec IngestRecord) error

	// Delete removes a record. Missing ids are not an error.
	Delete(ctx context.Context, documentID string) error

	// List returns all records.
	List(ctx context.Context) ([]IngestRecord, error)

	// Close releases resources.
	Close() error
}
