package model

import (
	"strings"

	"github.com/matzehuels/harvester/pkg/errors"
)

// Source identifies the registry a publication or checkpoint belongs to.
type Source string

const (
	SourceNPM       Source = "npm"
	SourceGitHub    Source = "github"
	SourcePackagist Source = "packagist"
	SourceMedium    Source = "medium"
)

// Sources returns the crawlable sources in their canonical order.
// Medium is a valid publication source but has no crawler.
func Sources() []Source {
	return []Source{SourceNPM, SourceGitHub, SourcePackagist}
}

// ParseSource converts a worker name (case-insensitive) into a crawlable
// Source. Malformed and unknown names fail with INVALID_SOURCE.
func ParseSource(name string) (Source, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if err := errors.ValidateSourceName(normalized); err != nil {
		return "", err
	}
	for _, known := range Sources() {
		if Source(normalized) == known {
			return known, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidSource, "unknown source %q", name)
}

func (s Source) String() string { return string(s) }

// Keyword is a search term in the shared keyword pool.
// Timestamp is the discovery time in Unix milliseconds and defines crawl order.
type Keyword struct {
	Value     string `bson:"value" json:"value" toml:"value"`
	Timestamp int64  `bson:"timestamp" json:"timestamp" toml:"timestamp"`
}

// Publication records that an author published Name on Source.
type Publication struct {
	Name   string `bson:"name" json:"name"`
	Source Source `bson:"source" json:"source"`
}

// Author is a person or organization identified by email.
type Author struct {
	Email        string        `bson:"email" json:"email"`
	Name         string        `bson:"name,omitempty" json:"name,omitempty"`
	URL          string        `bson:"url,omitempty" json:"url,omitempty"`
	Username     string        `bson:"username,omitempty" json:"username,omitempty"`
	Blog         string        `bson:"blog,omitempty" json:"blog,omitempty"`
	Location     string        `bson:"location,omitempty" json:"location,omitempty"`
	Publications []Publication `bson:"publications" json:"publications"`
}

// HasPublication reports whether the author already lists a publication
// with the given name. Sources are not compared.
func (a *Author) HasPublication(name string) bool {
	for _, p := range a.Publications {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Stage is the durable checkpoint of one source's crawl.
type Stage struct {
	Worker      Source  `bson:"worker" json:"worker"`
	LastKeyword Keyword `bson:"lastKeyword" json:"lastKeyword"`
}
