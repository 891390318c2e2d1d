package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderNone disables the service.
	AIProviderNone AIProvider = ""

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGemini
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// ChunkerSettings holds chunking parameters.
type ChunkerSettings struct {
	// TargetSize is the target chunk length in characters.
	TargetSize int

	// Overlap is the overlap budget in characters; roughly Overlap/6 words carry over.
	Overlap int

	// MinLength is the floor; chunks at or below it are discarded.
	MinLength int
}

// SearchSettings holds retrieval configuration.
type SearchSettings struct {
	// TopK is the default number of chunks returned.
	TopK int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI and Gemini).
	APIKey string

	// Timeout bounds every single embedding call.
	Timeout time.Duration

	// Concurrency is the number of embedding calls in flight per document.
	// 1 keeps strictly sequential calls.
	Concurrency int

	// MaxRetries is the number of retries for retryable failures. 0 disables retry.
	MaxRetries int

	// RatePerSecond throttles calls. 0 is unlimited.
	RatePerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// GenerationSettings holds the optional insight generator configuration.
type GenerationSettings struct {
	// Provider is the generation provider. Empty means template-only insights.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the API key.
	APIKey string

	// Timeout bounds a generation call.
	Timeout time.Duration
}

// IsConfigured returns true if a generator is set up.
func (g GenerationSettings) IsConfigured() bool {
	return g.Provider == AIProviderGemini && g.APIKey != ""
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string
}

// Settings holds all application settings.
type Settings struct {
	Chunker    ChunkerSettings
	Search     SearchSettings
	Embedding  EmbeddingSettings
	Generation GenerationSettings
	Server     ServerSettings
}

// DefaultSettings returns settings with sensible defaults.
// Embedding defaults to a local Ollama instance so no API key is needed.
func DefaultSettings() Settings {
	return Settings{
		Chunker: ChunkerSettings{
			TargetSize: 800,
			Overlap:    150,
			MinLength:  50,
		},
		Search: SearchSettings{
			TopK: 5,
		},
		Embedding: EmbeddingSettings{
			Provider:    AIProviderOllama,
			Timeout:     30 * time.Second,
			Concurrency: 1,
		},
		Generation: GenerationSettings{
			Timeout: 60 * time.Second,
		},
		Server: ServerSettings{
			Addr: ":8080",
		},
	}
}
