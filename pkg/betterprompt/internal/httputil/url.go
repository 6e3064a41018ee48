// ABOUTME: Base URL normalization so endpoint paths can be appended verbatim
// ABOUTME: Trims whitespace and trailing slashes; PathSegment escapes slugs

package httputil

import (
	"net/url"
	"strings"
)

// NormalizeBaseURL trims surrounding whitespace and any trailing slashes so
// that paths beginning with "/" can be appended directly.
func NormalizeBaseURL(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

// ValidateBaseURL reports whether baseURL is an absolute http(s) URL.
func ValidateBaseURL(baseURL string) bool {
	u, err := url.Parse(NormalizeBaseURL(baseURL))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// PathSegment escapes s for use as a single URL path segment.
func PathSegment(s string) string {
	return url.PathEscape(s)
}
