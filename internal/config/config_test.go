package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "SCRAPER_BASE_URL", "SCRAPER_SYNC_TIMEOUT", "SEARCH_INDEX", "CLASSIFIER_MODE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "https://api.apify.com", cfg.ScraperBaseURL)
	assert.Equal(t, 60*time.Second, cfg.ScrapeSyncTimeout)
	assert.Equal(t, "job-postings", cfg.SearchIndex)
	assert.Equal(t, "model", cfg.ClassifierMode)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SCRAPER_TOKEN", "tok")
	t.Setenv("SCRAPER_SYNC_TIMEOUT", "90s")
	t.Setenv("SEARCH_URL", "http://localhost:9200")
	t.Setenv("SEARCH_INDEX", "postings-test")
	t.Setenv("CLASSIFIER_MODE", "keyword")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "tok", cfg.ScraperToken)
	assert.Equal(t, 90*time.Second, cfg.ScrapeSyncTimeout)
	assert.Equal(t, "http://localhost:9200", cfg.SearchURL)
	assert.Equal(t, "postings-test", cfg.SearchIndex)
	assert.Equal(t, "keyword", cfg.ClassifierMode)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("SCRAPER_SYNC_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.ScrapeSyncTimeout)
}

func TestLoad_MissingCredentialsAreNotFatal(t *testing.T) {
	t.Setenv("SCRAPER_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.ScraperToken)
	assert.Empty(t, cfg.GeminiAPIKey)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:           8080,
			ScraperBaseURL: "https://api.apify.com",
			SearchIndex:    "job-postings",
			ClassifierMode: "model",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Valid", func(*Config) {}, false},
		{"Keyword mode valid", func(c *Config) { c.ClassifierMode = "keyword" }, false},
		{"Port zero", func(c *Config) { c.Port = 0 }, true},
		{"Port out of range", func(c *Config) { c.Port = 70000 }, true},
		{"Empty scraper base", func(c *Config) { c.ScraperBaseURL = "" }, true},
		{"Empty index", func(c *Config) { c.SearchIndex = "" }, true},
		{"Unknown classifier mode", func(c *Config) { c.ClassifierMode = "coin-flip" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
