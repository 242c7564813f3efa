package ratelimit

import (
	"strings"
)

// unlimited covers liveness probes and scrapes.
var unlimited = map[string]bool{
	"/":           true,
	"/api/health": true,
	"/metrics":    true,
}

// MatchEndpoint returns the rule for a request, or nil when the global default applies.
// Exact paths win over prefixes ending in "/".
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == "GET" && unlimited[path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	for i := range configs {
		c := &configs[i]
		if c.Path == path && c.Method == method {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			return c
		}
	}
	return nil
}
