package sources

import (
	"context"

	"github.com/matzehuels/harvester/pkg/crawl"
	"github.com/matzehuels/harvester/pkg/integrations/github"
	"github.com/matzehuels/harvester/pkg/model"
)

// GitHub searches repositories and resolves each owner's public profile.
// Owners without a public email are dropped by the engine.
type GitHub struct {
	client  *github.Client
	profile crawl.Profile
}

// NewGitHub wraps client. An empty profile seed defaults to [SeedGitHub].
func NewGitHub(client *github.Client, profile crawl.Profile) *GitHub {
	profile.Source = model.SourceGitHub
	return &GitHub{client: client, profile: withSeed(profile, SeedGitHub)}
}

func (s *GitHub) Profile() crawl.Profile { return s.profile }

// Search returns one hit per repository. The hit's Ref is the owner login
// and its Item holds the repository name and topics.
func (s *GitHub) Search(ctx context.Context, query string) (*crawl.Page, error) {
	repos, err := s.client.SearchRepositories(ctx, query)
	if err != nil {
		return nil, classify(err, "github search %q", query)
	}

	page := &crawl.Page{Hits: make([]crawl.Hit, 0, len(repos))}
	for _, repo := range repos {
		page.Hits = append(page.Hits, crawl.Hit{
			Ref: repo.Owner.Login,
			Item: &crawl.Item{
				Publication: repo.FullName,
				Keywords:    repo.Topics,
			},
		})
	}
	return page, nil
}

// Enrich fetches the owner profile and credits it for the repository.
func (s *GitHub) Enrich(ctx context.Context, hit crawl.Hit) (*crawl.Item, error) {
	if hit.Item == nil {
		return nil, nil
	}
	user, err := s.client.User(ctx, hit.Ref, false)
	if err != nil {
		return nil, classify(err, "github user %s", hit.Ref)
	}

	item := *hit.Item
	item.People = []model.Author{{
		Email:    user.Email,
		Name:     user.Name,
		Username: user.Login,
		Blog:     user.Blog,
		Location: user.Location,
	}}
	return &item, nil
}
