package crawl

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/store"
	"github.com/matzehuels/harvester/pkg/store/memory"
)

var errBoom = errors.New("boom")

func quietLogger() *log.Logger { return log.New(io.Discard) }

// fakeSource serves canned pages keyed by query.
type fakeSource struct {
	profile Profile
	pages   map[string]*Page
	errs    map[string]error
	onQuery func(query string)

	mu      sync.Mutex
	queries []string
}

func newFakeSource(p Profile) *fakeSource {
	return &fakeSource{profile: p, pages: map[string]*Page{}, errs: map[string]error{}}
}

func (f *fakeSource) Profile() Profile { return f.profile }

func (f *fakeSource) Search(ctx context.Context, query string) (*Page, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.onQuery != nil {
		f.onQuery(query)
	}
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	if p, ok := f.pages[query]; ok {
		return p, nil
	}
	return &Page{}, nil
}

func (f *fakeSource) Queries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// enrichingSource resolves every hit through enrich.
type enrichingSource struct {
	*fakeSource
	enrich func(Hit) (*Item, error)
}

func (s *enrichingSource) Enrich(ctx context.Context, hit Hit) (*Item, error) {
	return s.enrich(hit)
}

func itemHit(pub string, keywords []string, emails ...string) Hit {
	item := &Item{Publication: pub, Keywords: keywords}
	for _, e := range emails {
		item.People = append(item.People, model.Author{Email: e})
	}
	return Hit{Ref: pub, Item: item}
}

// wrappedStore overrides individual collections of a memory store.
type wrappedStore struct {
	*memory.Store
	authors  store.Authors
	keywords store.Keywords
	stages   store.Stages
}

func (w *wrappedStore) Authors() store.Authors {
	if w.authors != nil {
		return w.authors
	}
	return w.Store.Authors()
}

func (w *wrappedStore) Keywords() store.Keywords {
	if w.keywords != nil {
		return w.keywords
	}
	return w.Store.Keywords()
}

func (w *wrappedStore) Stages() store.Stages {
	if w.stages != nil {
		return w.stages
	}
	return w.Store.Stages()
}

// countingAuthors counts lookups.
type countingAuthors struct {
	store.Authors
	mu      sync.Mutex
	lookups int
}

func (c *countingAuthors) FindByEmail(ctx context.Context, email string) (*model.Author, error) {
	c.mu.Lock()
	c.lookups++
	c.mu.Unlock()
	return c.Authors.FindByEmail(ctx, email)
}

// failingStages fails Get and/or Save.
type failingStages struct {
	store.Stages
	getErr, saveErr error
}

func (f failingStages) Get(ctx context.Context, w model.Source) (*model.Stage, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Stages.Get(ctx, w)
}

func (f failingStages) Save(ctx context.Context, s model.Stage) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.Stages.Save(ctx, s)
}

// failingSince fails next-batch selection.
type failingSince struct {
	store.Keywords
}

func (failingSince) Since(context.Context, int64, int) ([]model.Keyword, error) {
	return nil, errBoom
}
