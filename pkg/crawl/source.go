package crawl

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/harvester/pkg/model"
)

// Profile parameterizes an [Engine] for one registry.
type Profile struct {
	// Source names the worker; it keys the stage checkpoint and tags
	// every publication.
	Source model.Source

	// Seed is searched first when no checkpoint exists.
	Seed string

	// Delay is the pause between rounds.
	Delay time.Duration

	// BatchSize caps the number of keywords per round.
	BatchSize int

	// Paginates selects the [Walker] for following next-page references.
	Paginates bool

	// Concurrency bounds the keywords searched and hits enriched at once.
	Concurrency int
}

const (
	defaultBatchSize   = 10
	defaultConcurrency = 1
)

func (p Profile) withDefaults() Profile {
	if p.BatchSize <= 0 {
		p.BatchSize = defaultBatchSize
	}
	if p.Concurrency <= 0 {
		p.Concurrency = defaultConcurrency
	}
	if p.Delay < 0 {
		p.Delay = 0
	}
	return p
}

// Item is one search result reduced to what the crawl stores.
type Item struct {
	// Publication is the package or repository name.
	Publication string

	// People are the candidates for the author collection, in registry
	// order. Entries without email are ignored.
	People []model.Author

	// Keywords are fed back into the keyword pool.
	Keywords []string
}

// Hit is one entry of a search page. Item is set when the search response
// already carries everything; otherwise Ref identifies the hit for the
// source's [Enricher].
type Hit struct {
	Ref  string
	Item *Item
}

// Page is one search response. Next, when non-empty, is an opaque
// reference the source accepts as a query to fetch the following page.
type Page struct {
	Hits []Hit
	Next string
}

// Source is a searchable registry.
type Source interface {
	Profile() Profile

	// Search runs query, which is either a keyword or a Next reference
	// from a previous page.
	Search(ctx context.Context, query string) (*Page, error)
}

// Enricher is implemented by sources whose hits need a secondary fetch.
// A nil item with nil error drops the hit.
type Enricher interface {
	Enrich(ctx context.Context, hit Hit) (*Item, error)
}

// resolveHits turns hits into items with at most limit enrichments in
// flight. Items keep the order of their hits; failed and empty hits are
// dropped.
func resolveHits(ctx context.Context, src Source, hits []Hit, limit int, logger *log.Logger) []Item {
	enricher, _ := src.(Enricher)
	resolved := make([]*Item, len(hits))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, hit := range hits {
		if enricher == nil {
			resolved[i] = hit.Item
			continue
		}
		g.Go(func() error {
			item, err := enricher.Enrich(ctx, hit)
			if err != nil {
				logger.Warn("enrichment failed", "ref", hit.Ref, "err", err)
				return nil
			}
			resolved[i] = item
			return nil
		})
	}
	_ = g.Wait()

	items := make([]Item, 0, len(resolved))
	for _, it := range resolved {
		if it != nil {
			items = append(items, *it)
		}
	}
	return items
}

// DistinctByEmail returns people with an email, keeping the first entry
// for each email.
func DistinctByEmail(people []model.Author) []model.Author {
	seen := make(map[string]struct{}, len(people))
	out := make([]model.Author, 0, len(people))
	for _, p := range people {
		if p.Email == "" {
			continue
		}
		if _, ok := seen[p.Email]; ok {
			continue
		}
		seen[p.Email] = struct{}{}
		out = append(out, p)
	}
	return out
}
