package npm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// SearchObject is one entry of a search response.
type SearchObject struct {
	Package Package `json:"package"`
}

// Package is the package summary embedded in a search result.
type Package struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Author      *Person  `json:"author"`
	Publisher   *Person  `json:"publisher"`
	Maintainers []Person `json:"maintainers"`
}

// Person is an npm author, publisher or maintainer.
type Person struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	URL      string `json:"url"`
	Username string `json:"username"`
}

// UnmarshalJSON accepts both the object form and the "Name <email> (url)"
// string form.
func (p *Person) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = ParsePerson(s)
		return nil
	}
	type plain Person
	return json.Unmarshal(b, (*plain)(p))
}

var personPattern = regexp.MustCompile(`^([^<(]*?)\s*(?:<([^>]*)>)?\s*(?:\(([^)]*)\))?$`)

// ParsePerson parses a "Name <email> (url)" string. Email and URL are
// optional; unrecognised input becomes the name.
func ParsePerson(s string) Person {
	s = strings.TrimSpace(s)
	m := personPattern.FindStringSubmatch(s)
	if m == nil {
		return Person{Name: s}
	}
	return Person{
		Name:  strings.TrimSpace(m[1]),
		Email: strings.TrimSpace(m[2]),
		URL:   strings.TrimSpace(m[3]),
	}
}
