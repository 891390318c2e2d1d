package ai

import (
	"context"
	"fmt"

	"github.com/custodia-labs/bizrag/internal/core/domain"
	"github.com/custodia-labs/bizrag/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// validationPrompt is sent to generators to confirm credentials work.
const validationPrompt = "Reply with the single word OK."

// ConfigValidator validates AI provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding validates an embedding configuration by pinging the provider.
// Unlike service creation, an unconfigured provider is reported as an error.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, settings domain.EmbeddingSettings) error {
	if !settings.IsConfigured() {
		return fmt.Errorf("%w: provider %q is not configured", domain.ErrEmbeddingUnavailable, settings.Provider)
	}

	svc, err := CreateAndValidateEmbeddingService(ctx, settings)
	if err != nil {
		return err
	}
	return svc.Close()
}

// ValidateGeneration validates a generation configuration with a short test prompt.
func (v *ConfigValidator) ValidateGeneration(ctx context.Context, settings domain.GenerationSettings) error {
	gen, err := CreateGenerator(settings)
	if err != nil {
		return err
	}
	if gen == nil {
		return nil
	}
	defer gen.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := gen.Generate(ctx, validationPrompt); err != nil {
		return fmt.Errorf("%s: %w", gen.ModelName(), err)
	}
	return nil
}
