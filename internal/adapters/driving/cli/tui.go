package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bizrag/internal/adapters/driving/tui"
)

var (
	tuiFiles []string
	tuiTopK  int
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Ingest the --file documents, then query them interactively.

Controls:
  enter    - Search
  ↑/↓      - Previous / next result (wraps)
  ctrl+r   - Insight report for the typed query
  pgup/dn  - Scroll
  esc      - Back / quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringSliceVarP(&tuiFiles, "file", "f", nil, "document to ingest first (repeatable)")
	tuiCmd.Flags().IntVarP(&tuiTopK, "top-k", "k", 0, "results per query (0 = search.top_k)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	t, err := currentTenant()
	if err != nil {
		return err
	}
	if _, err := ingestFiles(cmd, tuiFiles); err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{
		RAG:      ragService,
		Insights: insightService,
		Tenant:   t,
		TopK:     tuiTopK,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
