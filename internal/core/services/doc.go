// Package services implements the driving port interfaces.
// Services hold the ingestion and retrieval logic and orchestrate
// calls to driven ports (chunker, embedder, vector store, registry).
package services
