package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/harvester/pkg/buildinfo"
	"github.com/matzehuels/harvester/pkg/cache"
	"github.com/matzehuels/harvester/pkg/httputil"
	"github.com/matzehuels/harvester/pkg/observability"
)

const (
	defaultAttempts = 3
	defaultBackoff  = time.Second
)

// Client provides shared HTTP functionality for all registry API clients.
// It handles caching, retry logic, request pacing and common request headers.
//
// All methods are safe for concurrent use.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	namespace string
	ttl       time.Duration
	headers   map[string]string
	limiter   *rate.Limiter
	attempts  int
	backoff   time.Duration
}

// NewClient creates a Client with the given cache and default headers.
// Entries live in the cache's namespace view and are stored with ttl.
// Pass nil for headers if no default headers are needed. A nil cache
// disables caching.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	return &Client{
		http:      NewHTTPClient(),
		cache:     cache.Namespace(c, namespace),
		namespace: namespace,
		ttl:       ttl,
		headers:   headers,
		attempts:  defaultAttempts,
		backoff:   defaultBackoff,
	}
}

// SetRateLimit paces requests to at most rps per second. Zero or negative
// disables pacing.
func (c *Client) SetRateLimit(rps float64) {
	if rps <= 0 {
		c.limiter = nil
		return
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// SetTTL overrides the lifetime of cached responses. Zero or negative
// keeps the current TTL.
func (c *Client) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		c.ttl = ttl
	}
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok && json.Unmarshal(data, v) == nil {
			observability.Cache().OnCacheHit(ctx, c.namespace)
			return nil
		}
		observability.Cache().OnCacheMiss(ctx, c.namespace)
	}
	if err := fetch(); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, c.namespace, len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// Retryable failures are retried with exponential backoff.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	return httputil.Retry(ctx, c.attempts, c.backoff, func() error {
		body, err := c.doRequest(ctx, url, headers)
		if err != nil {
			return err
		}
		defer body.Close()
		if err := json.NewDecoder(body).Decode(v); err != nil {
			return fmt.Errorf("decode %s: %w", url, err)
		}
		return nil
	})
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests,
		code == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0":
		return &httputil.RetryableError{
			Err:   fmt.Errorf("%w: status %d", ErrRateLimited, code),
			After: httputil.RetryAfter(resp.Header),
		}
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
