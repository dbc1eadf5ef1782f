package application

import "strings"

// RequiresAuth reports whether a request path is subject to authentication
// given the configured exclusion patterns. A pattern ending in '*' matches any
// path sharing its prefix; every other pattern is compared for exact equality
// after both sides are normalized to exactly one trailing slash. Empty paths
// and empty exclusion lists fail safe: auth required.
func RequiresAuth(path string, excluded []string) bool {
	if path == "" {
		return true
	}
	if len(excluded) == 0 {
		return true
	}

	normalized := normalizePath(path)
	for _, pattern := range excluded {
		if pattern == "" {
			continue
		}
		if strings.HasSuffix(pattern, "*") {
			if strings.HasPrefix(normalized, strings.TrimSuffix(pattern, "*")) {
				return false
			}
			continue
		}
		if normalized == normalizePath(pattern) {
			return false
		}
	}
	return true
}

// normalizePath collapses any run of trailing slashes into exactly one.
// The root path is its own normal form.
func normalizePath(p string) string {
	if p == "/" {
		return "/"
	}
	trimmed := strings.TrimRight(p, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed + "/"
}
