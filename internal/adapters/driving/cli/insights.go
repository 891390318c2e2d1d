package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	insightsFiles []string
	insightsJSON  bool
)

var insightsCmd = &cobra.Command{
	Use:   "insights [query]",
	Short: "Build a business insight report",
	Long: `Ingests the --file documents, retrieves the chunks relevant to the query and
prints a markdown report with key metrics, recommendations and next steps.

Without a query the report summarises supply chain metrics. When nothing
relevant is found a general report is printed instead. With generation
configured the report body comes from the language model.`,
	RunE: runInsights,
}

func init() {
	insightsCmd.Flags().StringSliceVarP(&insightsFiles, "file", "f", nil, "document to ingest first (repeatable)")
	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "output the full insight as JSON")
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	if insightService == nil {
		return errors.New("insight service not configured")
	}
	if _, err := ingestFiles(cmd, insightsFiles); err != nil {
		return err
	}
	t, err := currentTenant()
	if err != nil {
		return err
	}

	insight, err := insightService.Insights(cmd.Context(), t, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("insights failed: %w", err)
	}

	if insightsJSON {
		data, err := json.MarshalIndent(insight, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal insight: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(insight.Response)
	if len(insight.SalesSuggestions) > 0 {
		cmd.Println()
		cmd.Println("Sales suggestions:")
		for _, s := range insight.SalesSuggestions {
			cmd.Printf("  - %s: %s (impact %s, effort %s)\n", s.Title, s.Description, s.Impact, s.Effort)
		}
	}
	return nil
}
