package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the AI providers are reachable",
	Long: `Sends a test request to the embedding provider and, when configured, the
generation provider. Exits non-zero if a configured provider fails.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if validator == nil {
		return errors.New("validator not configured")
	}

	failed := false
	emb := appSettings.Embedding
	if err := validator.ValidateEmbedding(cmd.Context(), emb); err != nil {
		failed = true
		cmd.Printf("✗ Embedding (%s): %v\n", emb.Provider.Description(), err)
	} else {
		cmd.Printf("✓ Embedding (%s): reachable\n", emb.Provider.Description())
	}

	gen := appSettings.Generation
	switch {
	case gen.Provider == "":
		cmd.Println("- Generation: not configured, reports use templates")
	case !gen.IsConfigured():
		failed = true
		cmd.Printf("✗ Generation (%s): API key not set\n", gen.Provider.Description())
	default:
		if err := validator.ValidateGeneration(cmd.Context(), gen); err != nil {
			failed = true
			cmd.Printf("✗ Generation (%s): %v\n", gen.Provider.Description(), err)
		} else {
			cmd.Printf("✓ Generation (%s): reachable\n", gen.Provider.Description())
		}
	}

	if failed {
		return errors.New("doctor found problems")
	}
	return nil
}
