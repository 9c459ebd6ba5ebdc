// Package packagist provides an HTTP client for the Packagist API.
//
// # Usage
//
//	client := packagist.NewClient(cache, "https://packagist.org")
//	page, err := client.Search(ctx, "symfony")
//	for _, hit := range page.Results {
//	    v, err := client.Package(ctx, hit.URL, false)
//	    ...
//	}
//	if page.Next != "" {
//	    page, err = client.Search(ctx, page.Next)
//	}
//
// # Pagination
//
// Search pages carry an absolute next-page URL. [Client.Search] accepts
// either a search term or such a URL; anything under the configured base
// URL is treated as a page reference.
//
// # Version Selection
//
// A package manifest lists every version. [Client.Package] returns the
// first stable one (no dev, alpha, beta or rc marker) in sorted key order,
// falling back to the first key when none is stable.
package packagist
