package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_DefaultsToOllama(t *testing.T) {
	client, err := NewClient(context.Background(), nil, "")

	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, client)
	assert.NoError(t, client.Close())
}

func TestNewClient_Ollama(t *testing.T) {
	client, err := NewClient(context.Background(), DefaultOllamaConfig(), "")

	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, client)
	assert.Equal(t, DefaultOllamaModel, client.GetModel(TierLite))
}

func TestNewClient_GeminiRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), DefaultGeminiConfig(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewClient_UnknownProviderFallsBack(t *testing.T) {
	config := &Config{
		Provider: Provider("mystery"),
		Models:   map[ModelTier]string{TierLite: "m"},
	}

	client, err := NewClient(context.Background(), config, "")

	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, client)
}
