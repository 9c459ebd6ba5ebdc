package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// MaxKeywordLength bounds the length of a stored keyword.
const MaxKeywordLength = 256

// ValidateKeyword rejects values that cannot be used as a search term:
// blank strings, over-long strings and strings with control characters.
func ValidateKeyword(value string) error {
	if strings.TrimSpace(value) == "" {
		return New(ErrCodeInvalidKeyword, "keyword cannot be empty")
	}

	if len(value) > MaxKeywordLength {
		return New(ErrCodeInvalidKeyword, "keyword too long (max %d characters)", MaxKeywordLength)
	}

	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKeyword, "keyword contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https) and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}
	return nil
}

// ValidateSourceName checks that name is a plausible worker name: a
// non-empty lowercase identifier of letters, digits and dashes.
func ValidateSourceName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSource, "source name cannot be empty")
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return New(ErrCodeInvalidSource, "source name %q contains invalid characters", name)
		}
	}
	return nil
}
