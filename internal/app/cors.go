package app

import (
	"net/url"
	"strings"
)

// allowedOriginFunc builds the CORS origin check from the configured
// patterns. A pattern is an exact "host[:port]", a "*.example.com"
// subdomain wildcard, or a "localhost:*" port wildcard.
func allowedOriginFunc(patterns []string) func(origin string) bool {
	return func(origin string) bool {
		host := origin
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			host = u.Host
		}
		for _, pattern := range patterns {
			if originMatches(pattern, host) {
				return true
			}
		}
		return false
	}
}

func originMatches(pattern, host string) bool {
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, pattern[:len(pattern)-1])
	}
	return false
}
