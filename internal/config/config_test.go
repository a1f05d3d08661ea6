package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/llm"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "ollama", cfg.LLMProvider)
	assert.Equal(t, llm.DefaultOllamaURL, cfg.OllamaURL)
	assert.Equal(t, llm.DefaultOllamaModel, cfg.OllamaModel)
	assert.Equal(t, 10, cfg.FetchTimeoutSeconds)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.False(t, cfg.UseBrowser)

	assert.NoError(t, cfg.Validate())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("OLLAMA_MODEL", "llama3")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "20")
	t.Setenv("USE_BROWSER", "true")
	t.Setenv("OUTPUT_DIR", "/tmp/applications")

	cfg := FromEnv()

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	assert.Equal(t, "llama3", cfg.OllamaModel)
	assert.Equal(t, 20, cfg.FetchTimeoutSeconds)
	assert.True(t, cfg.UseBrowser)
	assert.Equal(t, "/tmp/applications", cfg.OutputDir)
}

func TestFromEnv_IgnoresUnparseableValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("USE_BROWSER", "maybe")

	cfg := FromEnv()

	assert.Equal(t, 8000, cfg.Port)
	assert.False(t, cfg.UseBrowser)
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": 9090,
		"llm_provider": "ollama",
		"ollama_model": "llama3",
		"output_dir": "runs",
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "ollama", cfg.LLMProvider)
	assert.Equal(t, "llama3", cfg.OllamaModel)
	assert.Equal(t, "runs", cfg.OutputDir)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"portZero", func(c *Config) { c.Port = 0 }, "'port'"},
		{"portTooHigh", func(c *Config) { c.Port = 70000 }, "'port'"},
		{"negativeTimeout", func(c *Config) { c.FetchTimeoutSeconds = -1 }, "'fetch_timeout_seconds'"},
		{"unknownProvider", func(c *Config) { c.LLMProvider = "openai" }, "llm_provider"},
		{"geminiWithoutKey", func(c *Config) { c.LLMProvider = "gemini" }, "gemini_api_key"},
		{"geminiWithKey", func(c *Config) { c.LLMProvider = "gemini"; c.GeminiAPIKey = "k" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	fileCfg := Config{Port: 9090, OllamaModel: "llama3"}

	merged := fileCfg.MergeWithDefaults(Default())

	assert.Equal(t, 9090, merged.Port)
	assert.Equal(t, "llama3", merged.OllamaModel)
	assert.Equal(t, "ollama", merged.LLMProvider)
	assert.Equal(t, "output", merged.OutputDir)
	assert.Equal(t, 10, merged.FetchTimeoutSeconds)
}

func TestLLMConfig_Ollama(t *testing.T) {
	cfg := Default()
	cfg.OllamaURL = "http://llm.internal:11434"
	cfg.OllamaModel = "llama3"

	llmCfg := cfg.LLMConfig()

	assert.Equal(t, llm.ProviderOllama, llmCfg.Provider)
	assert.Equal(t, "http://llm.internal:11434", llmCfg.BaseURL)
	assert.Equal(t, "llama3", llmCfg.GetModel(llm.TierLite))
	assert.Equal(t, "llama3", llmCfg.GetModel(llm.TierAdvanced))
}

func TestLLMConfig_Gemini(t *testing.T) {
	cfg := Default()
	cfg.LLMProvider = "gemini"

	llmCfg := cfg.LLMConfig()

	assert.Equal(t, llm.ProviderGemini, llmCfg.Provider)
	assert.NotEmpty(t, llmCfg.GetModel(llm.TierAdvanced))
}

func TestFetchOptions(t *testing.T) {
	cfg := Default()
	cfg.FetchTimeoutSeconds = 25
	cfg.UseBrowser = true

	opts := cfg.FetchOptions()

	assert.Equal(t, 25*time.Second, opts.Timeout)
	assert.True(t, opts.UseBrowser)
	assert.NotEmpty(t, opts.UserAgent)
}
