package sources

import (
	"context"

	"github.com/matzehuels/harvester/pkg/crawl"
	"github.com/matzehuels/harvester/pkg/integrations/npm"
	"github.com/matzehuels/harvester/pkg/model"
)

// NPM searches the npm registry. Search results carry author, publisher
// and maintainers, so no enrichment is needed.
type NPM struct {
	client  *npm.Client
	profile crawl.Profile
}

// NewNPM wraps client. An empty profile seed defaults to [SeedNPM].
func NewNPM(client *npm.Client, profile crawl.Profile) *NPM {
	profile.Source = model.SourceNPM
	return &NPM{client: client, profile: withSeed(profile, SeedNPM)}
}

func (s *NPM) Profile() crawl.Profile { return s.profile }

func (s *NPM) Search(ctx context.Context, query string) (*crawl.Page, error) {
	objects, err := s.client.Search(ctx, query)
	if err != nil {
		return nil, classify(err, "npm search %q", query)
	}

	page := &crawl.Page{Hits: make([]crawl.Hit, 0, len(objects))}
	for _, obj := range objects {
		item := npmItem(obj.Package)
		page.Hits = append(page.Hits, crawl.Hit{Ref: obj.Package.Name, Item: &item})
	}
	return page, nil
}

// npmItem credits author, publisher and maintainers in that order.
func npmItem(pkg npm.Package) crawl.Item {
	var people []model.Author
	if pkg.Author != nil {
		people = append(people, npmAuthor(*pkg.Author))
	}
	if pkg.Publisher != nil {
		people = append(people, npmAuthor(*pkg.Publisher))
	}
	for _, m := range pkg.Maintainers {
		people = append(people, npmAuthor(m))
	}
	return crawl.Item{
		Publication: pkg.Name,
		People:      people,
		Keywords:    pkg.Keywords,
	}
}

func npmAuthor(p npm.Person) model.Author {
	return model.Author{
		Email:    p.Email,
		Name:     p.Name,
		URL:      p.URL,
		Username: p.Username,
	}
}
