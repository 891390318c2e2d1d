package services

import (
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/bizrag/internal/core/domain"
	"github.com/custodia-labs/bizrag/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyChunkTargetSize   = "chunker.target_size"
	keyChunkOverlap      = "chunker.overlap"
	keyChunkMinLength    = "chunker.min_length"
	keySearchTopK        = "search.top_k"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedTimeout      = "embedding.timeout_secs"
	keyEmbedConcurrency  = "embedding.concurrency"
	keyEmbedMaxRetries   = "embedding.max_retries"
	keyEmbedRate         = "embedding.rate_per_sec"
	keyGenProvider       = "generation.provider"
	keyGenModel          = "generation.model"
	keyGenAPIKey         = "generation.api_key"
	keyGenBaseURL        = "generation.base_url"
	keyGenTimeout        = "generation.timeout_secs"
	keyServerAddr        = "server.addr"
	envOpenAIKey         = "OPENAI_API_KEY"
	envGeminiKey         = "GEMINI_API_KEY"
	defaultGenerateModel = "gemini-1.5-flash"
)

// settingsReader reads typed values with defaults from a ConfigStore.
type settingsReader struct {
	configStore driven.ConfigStore
}

// LoadSettings reads application settings from the config store.
// Missing or invalid values fall back to domain.DefaultSettings.
func LoadSettings(configStore driven.ConfigStore) domain.Settings {
	s := settingsReader{configStore: configStore}
	defaults := domain.DefaultSettings()

	embedProvider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	genProvider := domain.AIProvider(strings.ToLower(s.configStore.GetString(keyGenProvider)))
	if genProvider != domain.AIProviderGemini {
		genProvider = domain.AIProviderNone
	}

	settings := domain.Settings{
		Chunker: domain.ChunkerSettings{
			TargetSize: s.getInt(keyChunkTargetSize, defaults.Chunker.TargetSize),
			Overlap:    s.getNonNegativeInt(keyChunkOverlap, defaults.Chunker.Overlap),
			MinLength:  s.getNonNegativeInt(keyChunkMinLength, defaults.Chunker.MinLength),
		},
		Search: domain.SearchSettings{
			TopK: s.getInt(keySearchTopK, defaults.Search.TopK),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:      embedProvider,
			Model:         s.configStore.GetString(keyEmbedModel), // No default - adapters pick their own
			BaseURL:       s.configStore.GetString(keyEmbedBaseURL),
			APIKey:        s.getAPIKey(keyEmbedAPIKey, embedProvider),
			Timeout:       s.getSeconds(keyEmbedTimeout, defaults.Embedding.Timeout),
			Concurrency:   s.getInt(keyEmbedConcurrency, defaults.Embedding.Concurrency),
			MaxRetries:    s.getNonNegativeInt(keyEmbedMaxRetries, defaults.Embedding.MaxRetries),
			RatePerSecond: s.getFloat(keyEmbedRate, defaults.Embedding.RatePerSecond),
		},
		Generation: domain.GenerationSettings{
			Provider: genProvider,
			Model:    s.getString(keyGenModel, defaultGenerateModel),
			BaseURL:  s.configStore.GetString(keyGenBaseURL),
			APIKey:   s.getAPIKey(keyGenAPIKey, genProvider),
			Timeout:  s.getSeconds(keyGenTimeout, defaults.Generation.Timeout),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
	}

	return settings
}

func (s settingsReader) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

// getInt returns the value, or the default when it is missing or not positive.
func (s settingsReader) getInt(key string, defaultVal int) int {
	if val := s.configStore.GetInt(key); val > 0 {
		return val
	}
	return defaultVal
}

// getNonNegativeInt allows an explicit 0.
func (s settingsReader) getNonNegativeInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val >= 0 {
		return val
	}
	return defaultVal
}

func (s settingsReader) getFloat(key string, defaultVal float64) float64 {
	if val := s.configStore.GetFloat(key); val > 0 {
		return val
	}
	return defaultVal
}

func (s settingsReader) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if val := s.configStore.GetInt(key); val > 0 {
		return time.Duration(val) * time.Second
	}
	return defaultVal
}

func (s settingsReader) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := domain.AIProvider(strings.ToLower(s.configStore.GetString(key)))
	if val.IsValid() {
		return val
	}
	return defaultVal
}

// getAPIKey prefers the configured key and falls back to the provider's environment variable.
func (s settingsReader) getAPIKey(key string, provider domain.AIProvider) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	switch provider {
	case domain.AIProviderOpenAI:
		return os.Getenv(envOpenAIKey)
	case domain.AIProviderGemini:
		return os.Getenv(envGeminiKey)
	default:
		return ""
	}
}
