package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const maxStdinQuery = 1 << 20

var (
	askFiles []string
	askJSON  bool
	askTopK  int
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Return the chunks most relevant to a query",
	Long: `Ingests the --file documents for the tenant, embeds the query and prints the
most relevant chunks, best first. Ranking combines cosine similarity with a
small bonus for longer chunks.

The query can be piped on stdin:
  echo "which products are low on stock?" | bizrag ask -f inventory.pdf`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSliceVarP(&askFiles, "file", "f", nil, "document to ingest first (repeatable)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output results as JSON")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to return (0 = search.top_k)")
	rootCmd.AddCommand(askCmd)
}

type askOutput struct {
	Tenant  string   `json:"tenant"`
	Query   string   `json:"query"`
	Results []string `json:"results"`
	Count   int      `json:"count"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireRAG(); err != nil {
		return err
	}
	query, err := readQuery(cmd, args)
	if err != nil {
		return err
	}
	if _, err := ingestFiles(cmd, askFiles); err != nil {
		return err
	}
	t, err := currentTenant()
	if err != nil {
		return err
	}

	results, err := ragService.Query(cmd.Context(), t, query, askTopK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if askJSON {
		if results == nil {
			results = []string{}
		}
		data, err := json.MarshalIndent(askOutput{
			Tenant:  t.String(),
			Query:   query,
			Results: results,
			Count:   len(results),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s\n\n", i+1, r)
	}
	return nil
}

// readQuery joins the arguments, or reads stdin when it is not a terminal.
func readQuery(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		if q := strings.TrimSpace(strings.Join(args, " ")); q != "" {
			return q, nil
		}
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("query required: pass it as an argument or pipe it on stdin")
	}

	data, err := io.ReadAll(io.LimitReader(in, maxStdinQuery))
	if err != nil {
		return "", fmt.Errorf("reading query from stdin: %w", err)
	}
	q := strings.TrimSpace(string(data))
	if q == "" {
		return "", errors.New("query required: pass it as an argument or pipe it on stdin")
	}
	return q, nil
}
