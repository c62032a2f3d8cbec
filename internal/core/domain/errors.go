package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfig indicates an invalid configuration: bad chunk size or
	// overlap, a threshold outside [0,1], or an embedding dimensionality
	// that does not match the store. Fatal at startup, never retried.
	ErrConfig = errors.New("invalid configuration")

	// ErrEmbedding indicates the embedding collaborator failed.
	// Surfaced to the caller; not retried internally.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStore indicates a vector store read or write failed.
	// Wrapped with the operation and the affected ids; not retried
	// internally.
	ErrStore = errors.New("vector store failure")
)

// IngestError wraps a per-document failure during batch ingestion.
// DocumentID identifies the failing document.
type IngestError struct {
	DocumentID string
	Err        error
}

// Error implements the error interface.
func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest document %s: %v", e.DocumentID, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *IngestError) Unwrap() error {
	return e.Err
}
