package crawl

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/harvester/pkg/observability"
)

// Walker follows next-page references of a paginating source.
type Walker struct {
	src         Source
	concurrency int
	logger      *log.Logger
}

// NewWalker creates a Walker over src. Enrichment within a page runs with
// at most concurrency requests in flight.
func NewWalker(src Source, concurrency int, logger *log.Logger) *Walker {
	if logger == nil {
		logger = log.Default()
	}
	return &Walker{src: src, concurrency: max(concurrency, 1), logger: logger}
}

// CollectAll searches keyword and every page after it, returning the
// resolved items of all pages in fetch order. A failed page search ends the
// walk with the items collected so far. A next reference seen before in
// this walk also ends it.
func (w *Walker) CollectAll(ctx context.Context, keyword string) []Item {
	source := w.src.Profile().Source.String()
	visited := map[string]struct{}{}
	var items []Item

	query := keyword
	for pages := 1; ; pages++ {
		if ctx.Err() != nil {
			return items
		}

		start := time.Now()
		page, err := w.src.Search(ctx, query)
		hits := 0
		if page != nil {
			hits = len(page.Hits)
		}
		observability.Crawl().OnSearch(ctx, source, hits, time.Since(start), err)
		if err != nil {
			w.logger.Warn("page search failed", "keyword", keyword, "page", pages, "err", err)
			return items
		}

		resolved := resolveHits(ctx, w.src, page.Hits, w.concurrency, w.logger)
		items = append(items, resolved...)
		w.logger.Debug("page collected", "keyword", keyword, "page", pages, "hits", hits, "items", len(resolved))

		if page.Next == "" {
			return items
		}
		if _, seen := visited[page.Next]; seen {
			w.logger.Warn("pagination loop", "keyword", keyword, "next", page.Next)
			return items
		}
		visited[page.Next] = struct{}{}
		query = page.Next
	}
}
