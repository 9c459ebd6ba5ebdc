package sources

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/harvester/pkg/crawl"
	"github.com/matzehuels/harvester/pkg/errors"
	"github.com/matzehuels/harvester/pkg/integrations/packagist"
	"github.com/matzehuels/harvester/pkg/model"
)

// Packagist searches a Packagist instance and follows its result pages.
// Each hit is resolved by fetching the package manifest.
type Packagist struct {
	client  *packagist.Client
	profile crawl.Profile
}

// NewPackagist wraps client. An empty profile seed defaults to
// [SeedPackagist]; the profile always paginates.
func NewPackagist(client *packagist.Client, profile crawl.Profile) *Packagist {
	profile.Source = model.SourcePackagist
	profile.Paginates = true
	return &Packagist{client: client, profile: withSeed(profile, SeedPackagist)}
}

func (s *Packagist) Profile() crawl.Profile { return s.profile }

// Search accepts a keyword or a next-page URL from a previous page.
func (s *Packagist) Search(ctx context.Context, query string) (*crawl.Page, error) {
	res, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, classify(err, "packagist search %q", query)
	}

	page := &crawl.Page{Hits: make([]crawl.Hit, 0, len(res.Results)), Next: res.Next}
	for _, r := range res.Results {
		page.Hits = append(page.Hits, crawl.Hit{Ref: r.URL})
	}
	return page, nil
}

// Enrich fetches the manifest behind the hit's URL.
func (s *Packagist) Enrich(ctx context.Context, hit crawl.Hit) (*crawl.Item, error) {
	v, err := s.client.Package(ctx, hit.Ref, false)
	if stderrors.Is(err, packagist.ErrForeignURL) {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "packagist package")
	}
	if err != nil {
		return nil, classify(err, "packagist package %s", hit.Ref)
	}

	people := make([]model.Author, 0, len(v.Authors))
	for _, a := range v.Authors {
		people = append(people, model.Author{
			Email: a.Email,
			Name:  a.Name,
			URL:   a.Homepage,
		})
	}
	return &crawl.Item{
		Publication: v.Name,
		People:      people,
		Keywords:    v.Keywords,
	}, nil
}
