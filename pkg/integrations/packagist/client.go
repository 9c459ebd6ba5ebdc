package packagist

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/harvester/pkg/cache"
	"github.com/matzehuels/harvester/pkg/integrations"
)

// ErrForeignURL is returned by [Client.Package] for URLs outside the
// configured base URL.
var ErrForeignURL = errors.New("url outside packagist base")

// Client provides access to a Packagist instance.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Packagist client rooted at baseURL (for example
// https://packagist.org). Package manifests are cached in c for
// [cache.TTLPackage].
func NewClient(c cache.Cache, baseURL string) *Client {
	return &Client{
		Client:  integrations.NewClient(c, "packagist:", cache.TTLPackage, nil),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// IsNextRef reports whether s is a page URL issued by this Packagist
// instance rather than a search term.
func (c *Client) IsNextRef(s string) bool {
	return c.baseURL != "" && strings.HasPrefix(s, c.baseURL+"/")
}

// Search runs a package search. queryOrNext is either a search term or a
// next-page URL taken from a previous [SearchPage]; the latter is fetched
// verbatim.
func (c *Client) Search(ctx context.Context, queryOrNext string) (*SearchPage, error) {
	url := queryOrNext
	if !c.IsNextRef(queryOrNext) {
		url = fmt.Sprintf("%s/search.json?q=%s", c.baseURL, integrations.URLEncode(queryOrNext))
	}

	var page SearchPage
	if err := c.Get(ctx, url, &page); err != nil {
		return nil, fmt.Errorf("packagist search %q: %w", queryOrNext, err)
	}
	return &page, nil
}

// Package fetches the manifest behind a search result URL and returns one
// version of it. The version is chosen deterministically: the first stable
// version in sorted order, otherwise the first version.
func (c *Client) Package(ctx context.Context, url string, refresh bool) (*Version, error) {
	url = strings.TrimSpace(url)
	if !c.IsNextRef(url) {
		return nil, fmt.Errorf("%w: %s", ErrForeignURL, url)
	}
	key := "package:" + strings.TrimPrefix(url, c.baseURL+"/")

	var v Version
	err := c.Cached(ctx, key, refresh, &v, func() error {
		return c.fetch(ctx, url, &v)
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) fetch(ctx context.Context, url string, v *Version) error {
	var data packageResponse
	if err := c.Get(ctx, url+".json", &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return fmt.Errorf("%w: packagist package %s", err, url)
		}
		return err
	}

	chosen, ok := pickVersion(data.Package.Versions)
	if !ok {
		return fmt.Errorf("no versions found for %s", data.Package.Name)
	}
	*v = chosen
	if v.Name == "" {
		v.Name = data.Package.Name
	}
	return nil
}

func pickVersion(versions map[string]Version) (Version, bool) {
	if len(versions) == 0 {
		return Version{}, false
	}
	keys := make([]string, 0, len(versions))
	for k := range versions {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if isStable(k) {
			return versions[k], true
		}
	}
	return versions[keys[0]], true
}

func isStable(version string) bool {
	lv := strings.ToLower(version)
	if strings.Contains(lv, "dev") {
		return false
	}
	for _, tag := range []string{"alpha", "beta", "rc"} {
		if strings.Contains(lv, tag) {
			return false
		}
	}
	return strings.Contains(strings.TrimPrefix(lv, "v"), ".")
}
