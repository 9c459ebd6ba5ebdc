package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/harvester/pkg/cache"
	"github.com/matzehuels/harvester/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// Client provides access to the GitHub search and users APIs.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client. Pass an empty token for
// unauthenticated requests (lower rate limits) and an empty baseURL for
// [DefaultBaseURL]. User profiles are cached in c for [cache.TTLProfile].
func NewClient(c cache.Cache, token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:  integrations.NewClient(c, "github:", cache.TTLProfile, headers),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SearchRepositories returns the first page of repositories matching q.
func (c *Client) SearchRepositories(ctx context.Context, q string) ([]Repository, error) {
	url := fmt.Sprintf("%s/search/repositories?q=%s", c.baseURL, integrations.URLEncode(q))

	var data searchResponse
	if err := c.Get(ctx, url, &data); err != nil {
		return nil, fmt.Errorf("github search %q: %w", q, err)
	}
	return data.Items, nil
}

// User fetches a user profile. Profiles are cached; refresh bypasses the cache.
func (c *Client) User(ctx context.Context, login string, refresh bool) (*User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return nil, fmt.Errorf("%w: empty github login", integrations.ErrNotFound)
	}

	var u User
	err := c.Cached(ctx, "user:"+strings.ToLower(login), refresh, &u, func() error {
		return c.fetchUser(ctx, login, &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) fetchUser(ctx context.Context, login string, u *User) error {
	url := fmt.Sprintf("%s/users/%s", c.baseURL, login)
	if err := c.Get(ctx, url, u); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: github user %s", err, login)
		}
		return err
	}
	return nil
}

type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []Repository `json:"items"`
}
