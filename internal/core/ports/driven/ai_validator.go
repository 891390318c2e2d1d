package driven

import (
	"context"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

// AIConfigValidator validates AI provider configurations.
// Implementations verify that configurations are valid by testing connectivity
// to the underlying AI services.
type AIConfigValidator interface {
	// ValidateEmbedding validates an embedding configuration by pinging the provider.
	ValidateEmbedding(ctx context.Context, settings domain.EmbeddingSettings) error

	// ValidateGeneration validates a generation configuration with a short test prompt.
	// Returns nil if no generator is configured.
	ValidateGeneration(ctx context.Context, settings domain.GenerationSettings) error
}
