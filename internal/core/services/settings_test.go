package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/bizrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bizrag/internal/core/domain"
)

func TestLoadSettings_ReturnsDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	store := memory.NewConfigStore()

	settings := LoadSettings(store)

	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Chunker, settings.Chunker)
	assert.Equal(t, defaults.Search, settings.Search)
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.Embedding.Timeout, settings.Embedding.Timeout)
	assert.Equal(t, 1, settings.Embedding.Concurrency)
	assert.Equal(t, 0, settings.Embedding.MaxRetries)
	assert.Zero(t, settings.Embedding.RatePerSecond)
	assert.Equal(t, domain.AIProviderNone, settings.Generation.Provider)
	assert.Equal(t, "gemini-1.5-flash", settings.Generation.Model)
	assert.Equal(t, ":8080", settings.Server.Addr)
}

func TestLoadSettings_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("chunker.target_size", 400)
	_ = store.Set("chunker.overlap", 0)
	_ = store.Set("search.top_k", int64(3))
	_ = store.Set("embedding.provider", "OpenAI")
	_ = store.Set("embedding.model", "text-embedding-3-large")
	_ = store.Set("embedding.api_key", "sk-test")
	_ = store.Set("embedding.timeout_secs", 5)
	_ = store.Set("embedding.concurrency", 4)
	_ = store.Set("embedding.max_retries", 2)
	_ = store.Set("embedding.rate_per_sec", 2.5)
	_ = store.Set("generation.provider", "gemini")
	_ = store.Set("generation.api_key", "g-key")
	_ = store.Set("generation.base_url", "http://gen.local")
	_ = store.Set("server.addr", "127.0.0.1:9000")

	settings := LoadSettings(store)

	assert.Equal(t, 400, settings.Chunker.TargetSize)
	assert.Equal(t, 0, settings.Chunker.Overlap)
	assert.Equal(t, 3, settings.Search.TopK)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Equal(t, 5*time.Second, settings.Embedding.Timeout)
	assert.Equal(t, 4, settings.Embedding.Concurrency)
	assert.Equal(t, 2, settings.Embedding.MaxRetries)
	assert.InDelta(t, 2.5, settings.Embedding.RatePerSecond, 1e-9)
	assert.True(t, settings.Generation.IsConfigured())
	assert.Equal(t, "http://gen.local", settings.Generation.BaseURL)
	assert.Equal(t, "127.0.0.1:9000", settings.Server.Addr)
}

func TestLoadSettings_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "invalid_provider")
	_ = store.Set("generation.provider", "anthropic")
	_ = store.Set("chunker.target_size", -10)
	_ = store.Set("embedding.max_retries", -1)

	settings := LoadSettings(store)

	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, domain.AIProviderNone, settings.Generation.Provider)
	assert.Equal(t, defaults.Chunker.TargetSize, settings.Chunker.TargetSize)
	assert.Equal(t, 0, settings.Embedding.MaxRetries)
}

func TestLoadSettings_APIKeyFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("GEMINI_API_KEY", "env-gemini")

	tests := []struct {
		name     string
		provider string
		want     string
	}{
		{"openai", "openai", "env-openai"},
		{"gemini", "gemini", "env-gemini"},
		{"ollama needs none", "ollama", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			_ = store.Set("embedding.provider", tt.provider)

			settings := LoadSettings(store)

			assert.Equal(t, tt.want, settings.Embedding.APIKey)
		})
	}
}

func TestLoadSettings_ConfiguredKeyWinsOverEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	store := memory.NewConfigStore()
	_ = store.Set("generation.provider", "gemini")
	_ = store.Set("generation.api_key", "file-key")

	settings := LoadSettings(store)

	assert.Equal(t, "file-key", settings.Generation.APIKey)
}
