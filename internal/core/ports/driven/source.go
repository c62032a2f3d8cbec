package driven

import (
	"context"

	"github.com/korpus-dev/korpus/internal/core/domain"
)

// DocumentSource produces raw documents for ingestion.
// The wiki crawler implements this interface; the core treats crawling as
// an external collaborator and owns none of its pagination or depth limits.
type DocumentSource interface {
	// Crawl fetches all documents from the source.
	Crawl(ctx context.Context) ([]domain.Document, error)

	// Validate checks the source is reachable and credentials work.
	Validate(ctx context.Context) error
}
