package packagist

// SearchPage is one page of search results.
type SearchPage struct {
	Results []SearchItem `json:"results"`
	Total   int          `json:"total"`
	Next    string       `json:"next,omitempty"`
}

// SearchItem is a search hit. URL points at the package page and is the
// input to [Client.Package].
type SearchItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Repository  string `json:"repository"`
	Downloads   int    `json:"downloads"`
	Favers      int    `json:"favers"`
}

// Version is one version of a package manifest.
type Version struct {
	Name        string       `json:"name"`
	Version     string       `json:"version"`
	Description string       `json:"description"`
	Homepage    string       `json:"homepage"`
	Keywords    []string     `json:"keywords"`
	Authors     []Maintainer `json:"authors"`
}

// Maintainer is a manifest author entry.
type Maintainer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Homepage string `json:"homepage"`
}

type packageResponse struct {
	Package struct {
		Name     string             `json:"name"`
		Versions map[string]Version `json:"versions"`
	} `json:"package"`
}
