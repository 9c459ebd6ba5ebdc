// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the hooks registered here without
// depending on a metrics backend. The CLI registers the Prometheus
// implementation from pkg/metrics at startup; everything else sees no-op
// hooks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCrawlHooks(metrics.New(prometheus.DefaultRegisterer))
//	    // ... run workers
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Crawl().OnRoundStart(ctx, "npm", len(batch))
//	// ... run the round ...
//	observability.Crawl().OnRoundComplete(ctx, "npm", time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Crawl Hooks
// =============================================================================

// CrawlHooks receives events from the crawl engine. The source argument is
// the worker name (npm, github, packagist).
type CrawlHooks interface {
	// Round events
	OnRoundStart(ctx context.Context, source string, batchSize int)
	OnRoundComplete(ctx context.Context, source string, duration time.Duration)

	// OnSearch records one registry search (a keyword or a follow-up page).
	OnSearch(ctx context.Context, source string, hits int, duration time.Duration, err error)

	// OnCheckpoint records a stage write.
	OnCheckpoint(ctx context.Context, source string, err error)

	// OnAuthor records a reconciled author. Created is false when only a
	// publication was appended.
	OnAuthor(ctx context.Context, source string, created bool)

	// OnKeyword records a newly stored keyword.
	OnKeyword(ctx context.Context, source string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache lookups in the registry clients.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, namespace string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, namespace string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCrawlHooks is a no-op implementation of CrawlHooks.
type NoopCrawlHooks struct{}

func (NoopCrawlHooks) OnRoundStart(context.Context, string, int)                   {}
func (NoopCrawlHooks) OnRoundComplete(context.Context, string, time.Duration)      {}
func (NoopCrawlHooks) OnSearch(context.Context, string, int, time.Duration, error) {}
func (NoopCrawlHooks) OnCheckpoint(context.Context, string, error)                 {}
func (NoopCrawlHooks) OnAuthor(context.Context, string, bool)                      {}
func (NoopCrawlHooks) OnKeyword(context.Context, string)                           {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	crawlHooks CrawlHooks = NoopCrawlHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetCrawlHooks registers custom crawl hooks.
// This should be called once at application startup before any worker starts.
func SetCrawlHooks(h CrawlHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		crawlHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Crawl returns the registered crawl hooks.
func Crawl() CrawlHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return crawlHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	crawlHooks = NoopCrawlHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
