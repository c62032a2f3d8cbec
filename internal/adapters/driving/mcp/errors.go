// Package mcp provides an MCP (Model Context Protocol) server adapter for
// korpus. It lets AI assistants retrieve grounded wiki context over stdio
// or HTTP.
package mcp

import (
	"errors"

	"github.com/korpus-dev/korpus/internal/core/domain"
	"github.com/korpus-dev/korpus/internal/logger"
)

// Errors returned when required ports are not provided.
var (
	ErrMissingContextService   = errors.New("mcp: context service is required")
	ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
)

// sanitizeError maps internal failures to caller-safe messages. The full
// error is logged; the caller learns which collaborator failed and nothing
// else.
func sanitizeError(op string, err error) error {
	logger.Error("%s: %v", op, err)

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return err
	case errors.Is(err, domain.ErrEmbedding):
		return errors.New("embedding service unavailable")
	case errors.Is(err, domain.ErrStore):
		return errors.New("vector store unavailable")
	default:
		return errors.New("internal error")
	}
}
