// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Maps text to fixed-dimension vectors
//   - VectorStore: Persists chunk records and answers similarity queries
//
// # Optional Interfaces
//
//   - Registry: Ingestion bookkeeping for re-ingestion dedup. When nil,
//     every ingest call re-embeds and re-upserts unconditionally.
//   - DocumentSource: Produces raw documents to ingest (the wiki crawler).
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
