package crawl

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/harvester/pkg/errors"
	"github.com/matzehuels/harvester/pkg/model"
	"github.com/matzehuels/harvester/pkg/observability"
	"github.com/matzehuels/harvester/pkg/store"
)

// Engine runs the crawl for one source.
type Engine struct {
	src        Source
	profile    Profile
	store      store.Store
	reconciler *Reconciler
	sink       *KeywordSink
	walker     *Walker
	logger     *log.Logger
	maxRounds  int
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	logger    *log.Logger
	stamper   *Stamper
	maxRounds int
}

// WithLogger sets the engine logger. Defaults to log.Default() prefixed
// with the source name.
func WithLogger(l *log.Logger) Option {
	return func(o *engineOptions) { o.logger = l }
}

// WithStamper sets the keyword timestamp source. Defaults to
// [DefaultStamper].
func WithStamper(s *Stamper) Option {
	return func(o *engineOptions) { o.stamper = s }
}

// WithMaxRounds stops [Engine.Run] after n rounds. Zero means no limit.
func WithMaxRounds(n int) Option {
	return func(o *engineOptions) { o.maxRounds = n }
}

// New creates an Engine for src persisting to st.
func New(src Source, st store.Store, opts ...Option) *Engine {
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}

	profile := src.Profile().withDefaults()
	logger := o.logger
	if logger == nil {
		logger = log.Default().WithPrefix(profile.Source.String())
	}

	return &Engine{
		src:        src,
		profile:    profile,
		store:      st,
		reconciler: NewReconciler(st.Authors(), logger),
		sink:       NewKeywordSink(st.Keywords(), profile.Source, o.stamper, logger),
		walker:     NewWalker(src, profile.Concurrency, logger),
		logger:     logger,
		maxRounds:  o.maxRounds,
	}
}

// Profile returns the effective profile, defaults applied.
func (e *Engine) Profile() Profile { return e.profile }

// Bootstrap returns the first batch: the checkpointed keyword when the
// source has a stage, the seed keyword stamped 0 otherwise.
func (e *Engine) Bootstrap(ctx context.Context) ([]model.Keyword, error) {
	stage, err := e.store.Stages().Get(ctx, e.profile.Source)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load %s stage", e.profile.Source)
	}
	if stage != nil {
		e.logger.Info("resuming from checkpoint", "keyword", stage.LastKeyword.Value, "timestamp", stage.LastKeyword.Timestamp)
		return []model.Keyword{stage.LastKeyword}, nil
	}
	e.logger.Info("starting from seed", "keyword", e.profile.Seed)
	return []model.Keyword{{Value: e.profile.Seed, Timestamp: 0}}, nil
}

// Run bootstraps and runs rounds until the keyword pool is exhausted, the
// round limit is reached or ctx is cancelled. Exhaustion and the round
// limit return nil; cancellation returns ctx.Err(). Store failures while
// bootstrapping or selecting a batch are returned as STORE_ERROR.
func (e *Engine) Run(ctx context.Context) error {
	batch, err := e.Bootstrap(ctx)
	if err != nil {
		return err
	}

	for round := 1; ; round++ {
		e.RunRound(ctx, batch)
		if e.maxRounds > 0 && round >= e.maxRounds {
			e.logger.Info("round limit reached", "rounds", round)
			return nil
		}

		if err := e.wait(ctx); err != nil {
			return err
		}

		last := batch[len(batch)-1]
		batch, err = e.store.Keywords().Since(ctx, last.Timestamp, e.profile.BatchSize)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(errors.ErrCodeStore, err, "select next %s batch", e.profile.Source)
		}
		if len(batch) == 0 {
			e.logger.Info("job completed", "rounds", round)
			return nil
		}
	}
}

func (e *Engine) wait(ctx context.Context) error {
	timer := time.NewTimer(e.profile.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RunRound processes one batch. Keywords are handled concurrently and
// independently; every failure inside the round is logged and contained.
func (e *Engine) RunRound(ctx context.Context, batch []model.Keyword) {
	if len(batch) == 0 {
		return
	}
	source := e.profile.Source.String()
	logger := e.logger.With("round", uuid.NewString()[:8])
	logger.Info("round started", "keywords", len(batch))
	observability.Crawl().OnRoundStart(ctx, source, len(batch))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.profile.Concurrency)
	for _, kw := range batch {
		g.Go(func() error {
			e.processKeyword(gctx, kw, logger)
			return nil
		})
	}
	_ = g.Wait()

	observability.Crawl().OnRoundComplete(ctx, source, time.Since(start))
	logger.Info("round finished", "duration", time.Since(start).Round(time.Millisecond))
}

func (e *Engine) processKeyword(ctx context.Context, kw model.Keyword, logger *log.Logger) {
	if ctx.Err() != nil {
		return
	}
	logger = logger.With("keyword", kw.Value)

	var items []Item
	if e.profile.Paginates {
		items = e.walker.CollectAll(ctx, kw.Value)
		if len(items) == 0 {
			logger.Debug("no results")
			return
		}
		e.checkpoint(ctx, kw, logger)
	} else {
		page := e.search(ctx, kw.Value, logger)
		if page == nil || len(page.Hits) == 0 {
			logger.Debug("no results")
			return
		}
		e.checkpoint(ctx, kw, logger)
		items = resolveHits(ctx, e.src, page.Hits, e.profile.Concurrency, logger)
	}
	logger.Info("results", "items", len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.profile.Concurrency)
	for _, item := range items {
		g.Go(func() error {
			e.processItem(gctx, item, logger)
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Engine) search(ctx context.Context, query string, logger *log.Logger) *Page {
	start := time.Now()
	page, err := e.src.Search(ctx, query)
	hits := 0
	if page != nil {
		hits = len(page.Hits)
	}
	observability.Crawl().OnSearch(ctx, e.profile.Source.String(), hits, time.Since(start), err)
	if err != nil {
		logger.Warn("search failed", "err", err)
		return nil
	}
	return page
}

func (e *Engine) checkpoint(ctx context.Context, kw model.Keyword, logger *log.Logger) {
	err := e.store.Stages().Save(ctx, model.Stage{Worker: e.profile.Source, LastKeyword: kw})
	observability.Crawl().OnCheckpoint(ctx, e.profile.Source.String(), err)
	if err != nil {
		logger.Error("checkpoint failed", "err", err)
	}
}

func (e *Engine) processItem(ctx context.Context, item Item, logger *log.Logger) {
	pub := model.Publication{Name: item.Publication, Source: e.profile.Source}
	for _, person := range DistinctByEmail(item.People) {
		if _, err := e.reconciler.Reconcile(ctx, person, pub); err != nil {
			logger.Error("reconcile author", "email", person.Email, "publication", pub.Name, "err", err)
		}
	}
	if _, err := e.sink.Ingest(ctx, item.Keywords); err != nil {
		logger.Error("ingest keywords", "publication", pub.Name, "err", err)
	}
}
