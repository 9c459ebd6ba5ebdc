// Package memory provides an in-process [store.Store].
//
// All collections are guarded by one mutex and documents are copied on the
// way in and out, so callers never share memory with the store. Uniqueness
// constraints mirror the MongoDB indexes: inserts of an existing author email
// or keyword value fail with [store.ErrDuplicate].
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/store"
)

// Store is a map-backed store.Store.
type Store struct {
	mu       sync.RWMutex
	authors  map[string]*model.Author
	keywords map[string]model.Keyword
	stages   map[model.Source]model.Stage
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		authors:  make(map[string]*model.Author),
		keywords: make(map[string]model.Keyword),
		stages:   make(map[model.Source]model.Stage),
	}
}

func (s *Store) Authors() store.Authors   { return authors{s} }
func (s *Store) Keywords() store.Keywords { return keywords{s} }
func (s *Store) Stages() store.Stages     { return stages{s} }

func (s *Store) Ping(ctx context.Context) error  { return ctx.Err() }
func (s *Store) Close(ctx context.Context) error { return nil }

type authors struct{ s *Store }

func (c authors) FindByEmail(ctx context.Context, email string) (*model.Author, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	a, ok := c.s.authors[email]
	if !ok {
		return nil, nil
	}
	return cloneAuthor(a), nil
}

func (c authors) Insert(ctx context.Context, a *model.Author) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.s.authors[a.Email]; ok {
		return fmt.Errorf("%w: author %s", store.ErrDuplicate, a.Email)
	}
	c.s.authors[a.Email] = cloneAuthor(a)
	return nil
}

func (c authors) AppendPublication(ctx context.Context, email string, p model.Publication) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if a, ok := c.s.authors[email]; ok {
		a.Publications = append(a.Publications, p)
	}
	return nil
}

func (c authors) Count(ctx context.Context) (int64, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return int64(len(c.s.authors)), nil
}

type keywords struct{ s *Store }

func (c keywords) Exists(ctx context.Context, value string) (bool, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	_, ok := c.s.keywords[value]
	return ok, nil
}

func (c keywords) Insert(ctx context.Context, k model.Keyword) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.s.keywords[k.Value]; ok {
		return fmt.Errorf("%w: keyword %q", store.ErrDuplicate, k.Value)
	}
	c.s.keywords[k.Value] = k
	return nil
}

func (c keywords) Since(ctx context.Context, ts int64, limit int) ([]model.Keyword, error) {
	c.s.mu.RLock()
	out := make([]model.Keyword, 0, len(c.s.keywords))
	for _, k := range c.s.keywords {
		if k.Timestamp >= ts {
			out = append(out, k)
		}
	}
	c.s.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.Keyword) int {
		if n := cmp.Compare(a.Timestamp, b.Timestamp); n != 0 {
			return n
		}
		return cmp.Compare(a.Value, b.Value)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c keywords) Count(ctx context.Context) (int64, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return int64(len(c.s.keywords)), nil
}

type stages struct{ s *Store }

func (c stages) Get(ctx context.Context, worker model.Source) (*model.Stage, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	st, ok := c.s.stages[worker]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (c stages) Save(ctx context.Context, st model.Stage) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.stages[st.Worker] = st
	return nil
}

func (c stages) Delete(ctx context.Context, worker model.Source) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	delete(c.s.stages, worker)
	return nil
}

func (c stages) List(ctx context.Context) ([]model.Stage, error) {
	c.s.mu.RLock()
	out := make([]model.Stage, 0, len(c.s.stages))
	for _, st := range c.s.stages {
		out = append(out, st)
	}
	c.s.mu.RUnlock()
	slices.SortFunc(out, func(a, b model.Stage) int { return cmp.Compare(a.Worker, b.Worker) })
	return out, nil
}

func cloneAuthor(a *model.Author) *model.Author {
	c := *a
	c.Publications = slices.Clone(a.Publications)
	return &c
}

var _ store.Store = (*Store)(nil)
