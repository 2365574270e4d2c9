package ratelimit

import "strings"

// MatchEndpoint matches a request path and method to an endpoint ceiling.
// Returns nil if no configuration matches; the health check is always
// unlimited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Path: path, Limit: 0}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	// Prefix match for patterns ending with "/".
	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
