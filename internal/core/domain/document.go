package domain

import (
	"fmt"
	"time"
)

// Document represents a raw document handed to the ingestion pipeline.
// It is the canonical representation produced by a crawler or caller
// and is immutable once chunked.
type Document struct {
	// ID is the unique identifier for the document, stable across crawls.
	ID string

	// Title is the human-readable title.
	Title string

	// Content is the full plain-text content before chunking.
	Content string

	// URL is the original location of the document.
	URL string

	// Author is the display name of the last author, if known.
	Author string

	// LastModified is when the source document was last changed.
	LastModified time.Time

	// Labels are free-form tags attached at the source.
	Labels []string

	// Type identifies the document kind (e.g. "page", "file").
	Type string

	// SpaceKey is the wiki space or collection the document belongs to.
	SpaceKey string
}

// Validate checks the fields the ingestion pipeline requires.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: document id is empty", ErrInvalidInput)
	}
	if d.Content == "" {
		return fmt.Errorf("%w: document %s has no content", ErrInvalidInput, d.ID)
	}
	return nil
}

// Chunk represents a bounded contiguous slice of a document's text,
// the atomic unit for embedding and retrieval.
type Chunk struct {
	// ID is derived from the parent document and position and is stable
	// across re-ingestion of the same document.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Position is the ordinal position within the document.
	Position int

	// Content is the text content of this chunk.
	Content string

	// Metadata is a snapshot of the parent document's provenance fields.
	// It must carry enough to rebuild a SourceRecord without a secondary
	// lookup: the store is the sole source of truth at query time.
	Metadata map[string]string
}

// ChunkID builds the deterministic chunk identifier for a document position.
func ChunkID(documentID string, position int) string {
	return fmt.Sprintf("%s:%d", documentID, position)
}

// Metadata keys carried on every chunk.
const (
	MetaTitle        = "title"
	MetaURL          = "url"
	MetaSpaceKey     = "space_key"
	MetaLastModified = "last_modified"
	MetaSource       = "source"
	MetaDocumentID   = "document_id"
)

// StoredRecord is what the vector store persists for one chunk.
// Records are created on ingest, deleted on explicit delete, and never
// mutated in place: re-ingestion is delete-then-add.
type StoredRecord struct {
	ID        string
	Embedding []float32
	Content   string
	Metadata  map[string]string
}
