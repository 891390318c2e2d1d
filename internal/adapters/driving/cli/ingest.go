package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

// ingestFiles loads files into the current tenant and prints a summary
// to stderr, keeping stdout for command output.
func ingestFiles(cmd *cobra.Command, files []string) (*domain.IngestReport, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if err := requireRAG(); err != nil {
		return nil, err
	}
	t, err := currentTenant()
	if err != nil {
		return nil, err
	}

	report, err := ragService.ProcessDocuments(cmd.Context(), t, files)
	if err != nil {
		return nil, fmt.Errorf("ingestion failed: %w", err)
	}
	printReport(cmd.ErrOrStderr(), report)
	return report, nil
}

func printReport(w io.Writer, report *domain.IngestReport) {
	fmt.Fprintf(w, "Ingested %d of %d documents (%d chunks) into %s\n",
		len(report.Ingested), report.DocumentsProcessed(), report.TotalChunks(), report.Tenant)
	if report.HasFailures() {
		fmt.Fprintf(w, "Failed (%d):\n", len(report.Failures))
		for _, f := range report.Failures {
			fmt.Fprintf(w, "  ! %s: %s: %s\n", f.Path, f.Kind, f.Message)
		}
	}
	for _, p := range report.Skipped {
		fmt.Fprintf(w, "  - %s: no usable text\n", p)
	}
}
