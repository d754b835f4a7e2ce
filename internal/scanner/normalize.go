// Package scanner runs the scan pipeline: normalize, cache gate, fetch,
// extract, sub-page crawl, analyze, persist.
package scanner

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Input validation errors, surfaced to the caller as client errors.
var (
	// ErrEmptyURL is returned when no URL was provided.
	ErrEmptyURL = errors.New("URL is required")
	// ErrInvalidURL is returned when the URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid URL: must be an absolute http or https URL")
)

// NormalizeURL canonicalizes a raw URL by re-serializing it through the URL
// parser. An empty path becomes "/" so that "https://example.com" and
// "https://example.com/" share one cache key. Normalization is idempotent.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, raw)
	}

	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, raw)
	}

	if parsed.Path == "" {
		parsed.Path = "/"
	}

	return parsed.String(), nil
}
