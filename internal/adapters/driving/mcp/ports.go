package mcp

import (
	"github.com/korpus-dev/korpus/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Context assembles bounded context strings for LLM callers.
	Context driving.ContextService

	// Retrieval answers raw ranked similarity queries.
	Retrieval driving.RetrievalService

	// Stats reports corpus statistics. Optional.
	Stats driving.StatsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Context == nil {
		return ErrMissingContextService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Stats is optional
	return nil
}
