// Package llm provides the single-shot prompt-completion adapter and the
// intent classifier built on top of it.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for cheap judgment calls: intent classification, query generation
	TierLite ModelTier = "lite"
	// TierStandard is for answer composition
	TierStandard ModelTier = "standard"
)

// Config holds the model configuration for the application
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini model configuration
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}
