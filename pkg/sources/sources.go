package sources

import (
	stderrors "errors"

	"github.com/matzehuels/harvester/pkg/cache"
	"github.com/matzehuels/harvester/pkg/config"
	"github.com/matzehuels/harvester/pkg/crawl"
	"github.com/matzehuels/harvester/pkg/errors"
	"github.com/matzehuels/harvester/pkg/integrations"
	"github.com/matzehuels/harvester/pkg/integrations/github"
	"github.com/matzehuels/harvester/pkg/integrations/npm"
	"github.com/matzehuels/harvester/pkg/integrations/packagist"
	"github.com/matzehuels/harvester/pkg/model"
)

// Seeds searched when a source has no checkpoint.
const (
	SeedNPM       = "role"
	SeedGitHub    = "role"
	SeedPackagist = "symfony"
)

// New builds the source named src from cfg. Enrichment lookups are cached
// in c, which may be nil. A CONFIG_ERROR means this worker cannot start.
func New(src model.Source, cfg config.Config, c cache.Cache) (crawl.Source, error) {
	src, err := model.ParseSource(src.String())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "no crawler")
	}
	if err := cfg.ValidateSource(src); err != nil {
		return nil, err
	}
	sc := cfg.Source(src)
	profile := crawl.Profile{
		Source:      src,
		Delay:       sc.Delay(),
		BatchSize:   sc.BatchSize,
		Concurrency: sc.Concurrency,
	}

	switch src {
	case model.SourceNPM:
		client := npm.NewClient(sc.BaseURL)
		client.SetRateLimit(sc.RPS)
		profile.Seed = SeedNPM
		return NewNPM(client, profile), nil
	case model.SourceGitHub:
		client := github.NewClient(c, cfg.GitHub.AccessToken, sc.BaseURL)
		client.SetRateLimit(sc.RPS)
		client.SetTTL(cfg.CacheTTL)
		profile.Seed = SeedGitHub
		return NewGitHub(client, profile), nil
	case model.SourcePackagist:
		client := packagist.NewClient(c, sc.BaseURL)
		client.SetRateLimit(sc.RPS)
		client.SetTTL(cfg.CacheTTL)
		profile.Seed = SeedPackagist
		profile.Paginates = true
		return NewPackagist(client, profile), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidSource, "no crawler for %s", src)
}

// classify attaches an error code to a registry client failure.
func classify(err error, format string, args ...any) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, integrations.ErrRateLimited):
		return errors.Wrap(errors.ErrCodeRateLimited, err, format, args...)
	case stderrors.Is(err, integrations.ErrNotFound):
		return errors.Wrap(errors.ErrCodeNotFound, err, format, args...)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, format, args...)
	}
}

func withSeed(p crawl.Profile, seed string) crawl.Profile {
	if p.Seed == "" {
		p.Seed = seed
	}
	return p
}
