// Package config resolves process configuration from the environment into an
// immutable value passed to adapters at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all external endpoints and credentials. It is resolved once at
// process start and read-only afterwards; adapters never embed endpoints or
// keys as literals.
type Config struct {
	Port int

	// Scraper actor service
	ScraperBaseURL    string
	ScraperToken      string
	JobActorID        string
	ProfileActorID    string
	ScrapeSyncTimeout time.Duration

	// Search index service
	SearchURL    string
	SearchAPIKey string
	SearchIndex  string

	// LLM service
	GeminiAPIKey   string
	ClassifierMode string // "model" or "keyword"
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnvInt("PORT", 8080),
		ScraperBaseURL:    getEnvString("SCRAPER_BASE_URL", "https://api.apify.com"),
		ScraperToken:      os.Getenv("SCRAPER_TOKEN"),
		JobActorID:        getEnvString("SCRAPER_JOB_ACTOR", "curious_coder~linkedin-jobs-scraper"),
		ProfileActorID:    getEnvString("SCRAPER_PROFILE_ACTOR", "dev_fusion~linkedin-profile-scraper"),
		ScrapeSyncTimeout: getEnvDuration("SCRAPER_SYNC_TIMEOUT", 60*time.Second),
		SearchURL:         os.Getenv("SEARCH_URL"),
		SearchAPIKey:      os.Getenv("SEARCH_API_KEY"),
		SearchIndex:       getEnvString("SEARCH_INDEX", "job-postings"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		ClassifierMode:    getEnvString("CLASSIFIER_MODE", "model"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural configuration values. Missing credentials are
// not fatal at load time; adapters surface them as configuration errors when
// first used, so the server can start in degraded mode.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: invalid port %d", c.Port)
	}
	if c.ScraperBaseURL == "" {
		return fmt.Errorf("config error: scraper base URL is empty")
	}
	if c.SearchIndex == "" {
		return fmt.Errorf("config error: search index name is empty")
	}
	if c.ClassifierMode != "model" && c.ClassifierMode != "keyword" {
		return fmt.Errorf("config error: unknown classifier mode %q", c.ClassifierMode)
	}
	return nil
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
