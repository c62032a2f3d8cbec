package wiki

import (
	"context"
	"fmt"
	"net/url"

	"github.com/korpus-dev/korpus/internal/core/domain"
	"github.com/korpus-dev/korpus/internal/core/ports/driven"
	"github.com/korpus-dev/korpus/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.DocumentSource = (*Connector)(nil)

// Connector crawls a wiki instance and produces domain documents.
type Connector struct {
	cfg    Config
	client *client
}

// New creates a wiki connector.
func New(cfg Config) (*Connector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Connector{
		cfg:    cfg,
		client: newClient(cfg),
	}, nil
}

// Validate checks the wiki is reachable and the token is accepted.
func (c *Connector) Validate(ctx context.Context) error {
	query := url.Values{}
	query.Set("limit", "1")

	var resp pagedResponse[space]
	if err := c.client.get(ctx, "/rest/api/space", query, &resp); err != nil {
		return fmt.Errorf("validating wiki connection: %w", err)
	}
	return nil
}

// Crawl fetches every page from the configured spaces. When no space keys
// are configured, all spaces visible to the token are crawled.
func (c *Connector) Crawl(ctx context.Context) ([]domain.Document, error) {
	spaceKeys := c.cfg.SpaceKeys
	if len(spaceKeys) == 0 {
		spaces, err := c.client.listSpaces(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing spaces: %w", err)
		}
		for _, s := range spaces {
			spaceKeys = append(spaceKeys, s.Key)
		}
	}

	var docs []domain.Document
	for _, key := range spaceKeys {
		logger.Debug("crawling space %s", key)

		pages, err := c.client.listPages(ctx, key, c.cfg.MaxPages)
		if err != nil {
			return nil, fmt.Errorf("listing pages in space %s: %w", key, err)
		}

		for i := range pages {
			docs = append(docs, c.toDocument(&pages[i]))
		}
		logger.Debug("space %s: %d pages", key, len(pages))
	}

	logger.Info("crawled %d documents from %d spaces", len(docs), len(spaceKeys))
	return docs, nil
}

// GetPage fetches a single page by id.
func (c *Connector) GetPage(ctx context.Context, id string) (*domain.Document, error) {
	p, err := c.client.getPage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting page %s: %w", id, err)
	}

	doc := c.toDocument(p)
	return &doc, nil
}

// toDocument converts an API page into a domain document with the
// storage HTML stripped to plain text.
func (c *Connector) toDocument(p *page) domain.Document {
	labels := make([]string, 0, len(p.Metadata.Labels.Results))
	for _, l := range p.Metadata.Labels.Results {
		labels = append(labels, l.Name)
	}

	docType := p.Type
	if docType == "" {
		docType = "page"
	}

	return domain.Document{
		ID:           p.ID,
		Title:        p.Title,
		Content:      stripHTML(p.Body.Storage.Value),
		URL:          c.client.baseURL + p.Links.WebUI,
		Author:       p.History.CreatedBy.DisplayName,
		LastModified: parseWhen(p.History.LastUpdated.When),
		Labels:       labels,
		Type:         docType,
		SpaceKey:     p.Space.Key,
	}
}
