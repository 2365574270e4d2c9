package ratelimit

import (
	"os"
	"strconv"
	"time"
)

// window is the fixed rate-limit window shared by all API endpoints.
const window = 15 * time.Minute

// EndpointConfig is the ceiling for one endpoint.
type EndpointConfig struct {
	Path   string // path pattern; trailing "/" enables prefix matching
	Method string
	Limit  int // maximum requests per window; <=0 means unlimited
	Window time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	EndpointConfigs []EndpointConfig
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 100),
		DefaultWindow:   window,
		CleanupInterval: 5 * time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint ceilings, ordered by cost:
// a full scrape-and-ingest run is far more expensive than a stats read.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/api/jobs/collect", Method: "POST", Limit: 3, Window: window},
		{Path: "/api/scrape/profile", Method: "POST", Limit: 5, Window: window},
		{Path: "/api/jobs/search", Method: "GET", Limit: 10, Window: window},
		{Path: "/api/chat", Method: "POST", Limit: 30, Window: window},
		{Path: "/api/jobs/stats", Method: "GET", Limit: 50, Window: window},
	}
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
