package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// pageExpand lists the content expansions needed to build a document
// without follow-up requests.
const pageExpand = "body.storage,space,history.createdBy,history.lastUpdated,metadata.labels"

// space is a wiki space as returned by the REST API.
type space struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// page is a wiki content item with the expansions from pageExpand.
type page struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	Space space  `json:"space"`
	Body  struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
	History struct {
		CreatedBy struct {
			DisplayName string `json:"displayName"`
		} `json:"createdBy"`
		LastUpdated struct {
			When string `json:"when"`
		} `json:"lastUpdated"`
	} `json:"history"`
	Metadata struct {
		Labels struct {
			Results []struct {
				Name string `json:"name"`
			} `json:"results"`
		} `json:"labels"`
	} `json:"metadata"`
	Links struct {
		WebUI string `json:"webui"`
	} `json:"_links"`
}

// pagedResponse is the envelope around paginated result lists.
type pagedResponse[T any] struct {
	Results []T `json:"results"`
	Start   int `json:"start"`
	Limit   int `json:"limit"`
	Size    int `json:"size"`
}

// client is a minimal wiki REST API client with rate limiting.
type client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

func newClient(cfg Config) *client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		token:       cfg.Token,
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: NewRateLimiter(cfg.RateLimit),
	}
}

// get performs a rate-limited GET and decodes the JSON response into out.
// A 429 response records backoff and is retried once.
func (c *client) get(ctx context.Context, path string, query url.Values, out any) error {
	for attempt := 0; attempt < 2; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return err
		}

		u := c.baseURL + path
		if len(query) > 0 {
			u += "?" + query.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("requesting %s: %w", path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
			resp.Body.Close()
			c.rateLimiter.RecordRateLimitError(retryAfter)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			return fmt.Errorf("wiki API %s returned status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decoding %s response: %w", path, err)
		}
		return nil
	}

	return fmt.Errorf("wiki API %s: rate limited after retry", path)
}

// listSpaces returns all spaces visible to the token.
func (c *client) listSpaces(ctx context.Context) ([]space, error) {
	var spaces []space
	start := 0
	for {
		query := url.Values{}
		query.Set("start", strconv.Itoa(start))
		query.Set("limit", strconv.Itoa(DefaultPageLimit))

		var resp pagedResponse[space]
		if err := c.get(ctx, "/rest/api/space", query, &resp); err != nil {
			return nil, err
		}

		spaces = append(spaces, resp.Results...)
		if len(resp.Results) < DefaultPageLimit {
			return spaces, nil
		}
		start += len(resp.Results)
	}
}

// listPages returns up to maxPages pages from a space, with content
// expansions included.
func (c *client) listPages(ctx context.Context, spaceKey string, maxPages int) ([]page, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var pages []page
	start := 0
	for len(pages) < maxPages {
		limit := DefaultPageLimit
		if remaining := maxPages - len(pages); remaining < limit {
			limit = remaining
		}

		query := url.Values{}
		query.Set("spaceKey", spaceKey)
		query.Set("type", "page")
		query.Set("start", strconv.Itoa(start))
		query.Set("limit", strconv.Itoa(limit))
		query.Set("expand", pageExpand)

		var resp pagedResponse[page]
		if err := c.get(ctx, "/rest/api/content", query, &resp); err != nil {
			return nil, err
		}

		pages = append(pages, resp.Results...)
		if len(resp.Results) < limit {
			return pages, nil
		}
		start += len(resp.Results)
	}

	return pages, nil
}

// getPage fetches a single page by id with content expansions.
func (c *client) getPage(ctx context.Context, id string) (*page, error) {
	query := url.Values{}
	query.Set("expand", pageExpand)

	var p page
	if err := c.get(ctx, "/rest/api/content/"+id, query, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// parseWhen parses the wiki's last-updated timestamp, which is RFC 3339
// with optional fractional seconds. A zero time is returned on failure.
func parseWhen(when string) time.Time {
	t, err := time.Parse(time.RFC3339, when)
	if err != nil {
		return time.Time{}
	}
	return t
}
