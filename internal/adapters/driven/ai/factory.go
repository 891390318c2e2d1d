// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	geminiembed "github.com/custodia-labs/bizrag/internal/adapters/driven/embedding/gemini"
	ollamaembed "github.com/custodia-labs/bizrag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/bizrag/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/bizrag/internal/adapters/driven/embedding/resilient"
	geminillm "github.com/custodia-labs/bizrag/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/bizrag/internal/core/domain"
	"github.com/custodia-labs/bizrag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(
	ctx context.Context, settings domain.EmbeddingSettings,
) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w). Check embedding.base_url and embedding.api_key",
			domain.ErrEmbeddingUnavailable, settings.Provider, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the configured embedding provider, wrapped with the
// per-call timeout, rate limit and retry policy from settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	var (
		base driven.EmbeddingService
		err  error
	)

	switch settings.Provider {
	case domain.AIProviderOllama:
		base = ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	case domain.AIProviderOpenAI:
		base, err = openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	case domain.AIProviderGemini:
		base, err = geminiembed.NewEmbeddingService(geminiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	return resilient.New(base, resilient.Config{
		Timeout:       settings.Timeout,
		MaxRetries:    settings.MaxRetries,
		RatePerSecond: settings.RatePerSecond,
	}), nil
}

// CreateGenerator creates the optional insight generator.
// Returns nil if generation is not configured.
func CreateGenerator(settings domain.GenerationSettings) (driven.Generator, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		gen, err := geminillm.NewGenerator(geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return gen, nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", settings.Provider)
	}
}
