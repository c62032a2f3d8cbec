package wiki

import (
	"fmt"
	"strings"
	"time"

	"github.com/korpus-dev/korpus/internal/core/domain"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultPageLimit is the page size for paginated API requests.
	DefaultPageLimit = 50

	// DefaultMaxPages caps how many pages one crawl may fetch per space.
	DefaultMaxPages = 1000
)

// Config holds the wiki connection settings.
type Config struct {
	// BaseURL is the wiki root, e.g. https://wiki.example.com.
	BaseURL string

	// Token is the bearer token for API authentication.
	Token string

	// SpaceKeys restricts the crawl to specific spaces. Empty means all
	// spaces visible to the token.
	SpaceKeys []string

	// MaxPages caps pages fetched per space. Defaults to DefaultMaxPages.
	MaxPages int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// RateLimit tunes the request rate limiter.
	RateLimit RateLimitConfig
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("%w: wiki base URL is required", domain.ErrConfig)
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("%w: wiki base URL must start with http:// or https://", domain.ErrConfig)
	}
	return nil
}
