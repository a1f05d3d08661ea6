// Package config provides configuration loading and validation for the service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonathan/apply-agent/internal/fetch"
	"github.com/jonathan/apply-agent/internal/llm"
)

// Config represents the service configuration. Values can come from a JSON
// file, environment variables, or CLI flags; missing values use defaults.
type Config struct {
	// Server
	Port int `json:"port,omitempty"`

	// LLM backend
	LLMProvider  string `json:"llm_provider,omitempty"`   // "ollama" (default) or "gemini"
	OllamaURL    string `json:"ollama_url,omitempty"`     // Ollama endpoint
	OllamaModel  string `json:"ollama_model,omitempty"`   // Model used for every tier
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Required for the gemini provider

	// Company fetching
	FetchTimeoutSeconds int  `json:"fetch_timeout_seconds,omitempty"`
	UseBrowser          bool `json:"use_browser,omitempty"` // Headless browser fallback for SPA sites

	// Output
	OutputDir string `json:"output_dir,omitempty"` // Where run directories are created

	Verbose bool `json:"verbose,omitempty"` // Print detailed progress information
}

// Default returns the built-in configuration: a local Ollama backend and an
// output directory under the working directory.
func Default() Config {
	return Config{
		Port:                8000,
		LLMProvider:         string(llm.ProviderOllama),
		OllamaURL:           llm.DefaultOllamaURL,
		OllamaModel:         llm.DefaultOllamaModel,
		FetchTimeoutSeconds: int(fetch.DefaultTimeout / time.Second),
		OutputDir:           "output",
	}
}

// FromEnv returns the default configuration overridden by environment
// variables. Unparseable numeric or boolean values keep the default.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLMProvider = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.OllamaURL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.OllamaModel = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("FETCH_TIMEOUT_SECONDS"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			cfg.FetchTimeoutSeconds = seconds
		}
	}
	if v := os.Getenv("USE_BROWSER"); v != "" {
		if useBrowser, err := strconv.ParseBool(v); err == nil {
			cfg.UseBrowser = useBrowser
		}
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("VERBOSE"); v != "" {
		if verbose, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = verbose
		}
	}

	return cfg
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535")
	}
	if c.FetchTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'fetch_timeout_seconds' must be non-negative")
	}

	switch llm.Provider(c.LLMProvider) {
	case llm.ProviderOllama, llm.ProviderGemini, "":
	default:
		return fmt.Errorf("config error: unknown 'llm_provider' %q", c.LLMProvider)
	}
	if llm.Provider(c.LLMProvider) == llm.ProviderGemini && c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: 'gemini_api_key' is required when 'llm_provider' is gemini")
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.LLMProvider == "" {
		result.LLMProvider = defaults.LLMProvider
	}
	if result.OllamaURL == "" {
		result.OllamaURL = defaults.OllamaURL
	}
	if result.OllamaModel == "" {
		result.OllamaModel = defaults.OllamaModel
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.FetchTimeoutSeconds == 0 {
		result.FetchTimeoutSeconds = defaults.FetchTimeoutSeconds
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMConfig maps the configuration to an LLM client configuration.
func (c *Config) LLMConfig() *llm.Config {
	if llm.Provider(c.LLMProvider) == llm.ProviderGemini {
		return llm.DefaultGeminiConfig()
	}

	cfg := llm.DefaultOllamaConfig()
	if c.OllamaURL != "" {
		cfg.BaseURL = c.OllamaURL
	}
	if c.OllamaModel != "" {
		for tier := range cfg.Models {
			cfg.Models[tier] = c.OllamaModel
		}
	}
	return cfg
}

// FetchOptions maps the configuration to company fetch options.
func (c *Config) FetchOptions() *fetch.Options {
	opts := fetch.DefaultOptions()
	if c.FetchTimeoutSeconds > 0 {
		opts.Timeout = time.Duration(c.FetchTimeoutSeconds) * time.Second
	}
	opts.UseBrowser = c.UseBrowser
	opts.Verbose = c.Verbose
	return opts
}
