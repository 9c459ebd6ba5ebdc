// Package github provides an HTTP client for the GitHub REST API.
//
// # Usage
//
//	client := github.NewClient(cache, token, "")
//	repos, err := client.SearchRepositories(ctx, "router")
//	for _, r := range repos {
//	    user, err := client.User(ctx, r.Owner.Login, false)
//	    ...
//	}
//
// # Authentication
//
// A personal access token is optional but recommended. Unauthenticated
// search is limited to 10 requests per minute, authenticated to 30.
//
// # Caching
//
// [Client.User] responses are cached for a week; profiles change rarely
// and the same owners surface under many keywords. Searches are never
// cached.
package github
