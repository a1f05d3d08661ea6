// Package llm provides centralized LLM configuration and client abstractions.
// The default provider is a local Ollama instance; Gemini is available behind
// the same interface for hosted deployments.
package llm

import "time"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, extraction
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: summarization, structured output
	TierStandard ModelTier = "standard"
	// TierAdvanced is for open-ended writing: cover letters, outreach messages
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOllama is a locally hosted Ollama instance
	ProviderOllama Provider = "ollama"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultOllamaURL is the standard local Ollama endpoint.
const DefaultOllamaURL = "http://localhost:11434"

// DefaultOllamaModel is the model used for every tier unless overridden.
const DefaultOllamaModel = "mistral-small"

// DefaultRequestTimeout bounds a single completion call. Local models can be
// slow on first load, so this is deliberately generous.
const DefaultRequestTimeout = 120 * time.Second

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// BaseURL is the endpoint for HTTP providers (Ollama). Ignored by Gemini.
	BaseURL string
	// Timeout bounds a single completion call. Zero means DefaultRequestTimeout.
	Timeout time.Duration
}

// DefaultConfig returns the default configuration (local Ollama)
func DefaultConfig() *Config {
	return DefaultOllamaConfig()
}

// DefaultOllamaConfig returns the default Ollama configuration.
// A single local model serves every tier.
func DefaultOllamaConfig() *Config {
	return &Config{
		Provider: ProviderOllama,
		BaseURL:  DefaultOllamaURL,
		Models: map[ModelTier]string{
			TierLite:     DefaultOllamaModel,
			TierStandard: DefaultOllamaModel,
			TierAdvanced: DefaultOllamaModel,
		},
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
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
	return "" // No model configured
}

// RequestTimeout returns the configured per-call timeout or the default.
func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultRequestTimeout
}
