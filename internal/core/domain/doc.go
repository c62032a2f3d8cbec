// Package domain defines the core business entities for Korpus.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A crawled wiki page or caller-supplied document
//   - Chunk: The atomic unit of embedding and retrieval
//   - StoredRecord: What the vector store persists per chunk
//   - SearchResult: A ranked similarity hit, produced fresh per query
//   - ContextResponse: The assembled, bounded context with provenance
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
