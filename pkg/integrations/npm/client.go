package npm

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/harvester/pkg/integrations"
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// DefaultPageSize is the number of results requested per search.
const DefaultPageSize = 20

// Client provides access to the npm registry search endpoint.
type Client struct {
	*integrations.Client
	baseURL  string
	pageSize int
}

// NewClient creates an npm client. An empty baseURL selects [DefaultBaseURL].
// Searches are never cached; each keyword is searched once per crawl.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:   integrations.NewClient(nil, "npm:", 0, nil),
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: DefaultPageSize,
	}
}

// Search runs a full-text package search and returns the result objects in
// registry order.
func (c *Client) Search(ctx context.Context, text string) ([]SearchObject, error) {
	url := fmt.Sprintf("%s/-/v1/search?text=%s&size=%d", c.baseURL, integrations.URLEncode(text), c.pageSize)

	var data searchResponse
	if err := c.Get(ctx, url, &data); err != nil {
		return nil, fmt.Errorf("npm search %q: %w", text, err)
	}
	return data.Objects, nil
}

type searchResponse struct {
	Objects []SearchObject `json:"objects"`
	Total   int            `json:"total"`
}
