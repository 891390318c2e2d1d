package driven

import "context"

// Generator produces text completions for insight reports.
// This is an optional service - when nil, insights use the built-in template.
type Generator interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
