// Package llm - ollama.go implements the Client interface against a local
// Ollama instance via its /api/chat endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ollamaTemperature keeps completions close to deterministic across runs.
const ollamaTemperature = 0.1

// OllamaClient implements Client for a local Ollama server.
type OllamaClient struct {
	httpClient *http.Client
	baseURL    string
	config     *Config
}

// NewOllamaClient creates a client for the configured Ollama endpoint.
func NewOllamaClient(config *Config) *OllamaClient {
	if config == nil {
		config = DefaultOllamaConfig()
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	return &OllamaClient{
		httpClient: &http.Client{Timeout: config.RequestTimeout()},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		config:     config,
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format,omitempty"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
	Error   string        `json:"error,omitempty"`
}

// GenerateContent generates text content using the specified model tier
func (c *OllamaClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.chat(ctx, prompt, tier, "")
}

// GenerateJSON generates JSON content using the specified model tier.
// Ollama's JSON format mode is requested, and any markdown fences the model
// still emits are stripped.
func (c *OllamaClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.chat(ctx, prompt, tier, "json")
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// GetModel returns the model name for a tier
func (c *OllamaClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client. The HTTP client holds none.
func (c *OllamaClient) Close() error {
	return nil
}

func (c *OllamaClient) chat(ctx context.Context, prompt string, tier ModelTier, format string) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	reqBody := ollamaChatRequest{
		Model:    modelName,
		Messages: []ollamaMessage{{Role: "user", Content: prompt}},
		Stream:   false,
		Format:   format,
		Options:  &ollamaOptions{Temperature: ollamaTemperature},
	}

	payload, err := json.Marshal(&reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ollama response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var chatResp ollamaChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}
	if chatResp.Error != "" {
		return "", fmt.Errorf("ollama error: %s", chatResp.Error)
	}

	content := strings.TrimSpace(chatResp.Message.Content)
	if content == "" {
		return "", fmt.Errorf("ollama returned an empty completion")
	}

	return content, nil
}
