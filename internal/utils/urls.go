// internal/utils/urls.go
package utils

import (
	"net/url"
	"strings"
)

// NormalizeURL resolves a possibly-relative URL against baseURL and strips
// any fragment component. An empty input yields an empty string; a URL that
// cannot be parsed is returned as-is rather than dropped, so callers keep
// the raw evidence for audit.
func NormalizeURL(rawURL, baseURL string) string {
	if rawURL == "" {
		return ""
	}

	if baseURL != "" && !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		base, err := url.Parse(baseURL)
		if err == nil {
			ref, err := url.Parse(rawURL)
			if err == nil {
				rawURL = base.ResolveReference(ref).String()
			}
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""

	return u.String()
}

// IsValidURL reports whether the string parses to a URL with both a
// non-empty scheme and a non-empty host.
func IsValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// ExtractDomain returns the host component of a URL, or "" when the URL
// cannot be parsed.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
