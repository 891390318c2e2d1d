// Package cli is the bizrag command line.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bizrag/internal/core/domain"
	"github.com/custodia-labs/bizrag/internal/core/ports/driven"
	"github.com/custodia-labs/bizrag/internal/core/ports/driving"
	"github.com/custodia-labs/bizrag/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Options are the global flags the process is wired from.
type Options struct {
	Verbose  bool
	NoConfig bool
}

// Services holds everything the commands call into.
type Services struct {
	RAG       driving.RAGService
	Insights  driving.InsightService
	Config    driven.ConfigStore
	Validator driven.AIConfigValidator

	// Files decides which paths can be ingested (serve --watch).
	Files interface{ Supports(path string) bool }

	Settings domain.Settings
}

// Bootstrap builds Services once flags are parsed.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var (
	ragService     driving.RAGService
	insightService driving.InsightService
	configStore    driven.ConfigStore
	validator      driven.AIConfigValidator
	fileFilter     interface{ Supports(path string) bool }
	appSettings    = domain.DefaultSettings()

	bootstrap Bootstrap
	wired     bool
)

var (
	verbose  bool
	noConfig bool
	tenant   string
)

var rootCmd = &cobra.Command{
	Use:   "bizrag",
	Short: "Semantic retrieval and business insights over your documents",
	Long: `bizrag extracts text from PDF, text, markdown, HTML and DOCX files, splits it
into overlapping chunks, embeds each chunk and keeps a per-tenant in-memory
index. Queries return the most relevant chunks; insights turn them into a
business report.

Nothing is persisted: every run starts with an empty index, so commands take
--file to ingest documents first.`,
	SilenceUsage:      true,
	PersistentPreRunE: wire,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noConfig, "no-config", false, "ignore the config file and use defaults")
	rootCmd.PersistentFlags().StringVarP(&tenant, "tenant", "t", "default", "tenant whose documents are used")
}

// SetBootstrap registers the function that wires services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs already-built services and skips the bootstrap.
func SetServices(s *Services) {
	ragService = s.RAG
	insightService = s.Insights
	configStore = s.Config
	validator = s.Validator
	fileFilter = s.Files
	appSettings = s.Settings
	wired = true
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func wire(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if wired || bootstrap == nil {
		return nil
	}
	services, err := bootstrap(cmd.Context(), Options{Verbose: verbose, NoConfig: noConfig})
	if err != nil {
		return err
	}
	SetServices(services)
	return nil
}

func currentTenant() (domain.TenantID, error) {
	if tenant == "" {
		return "", fmt.Errorf("--tenant must not be empty: %w", domain.ErrInvalidInput)
	}
	return domain.TenantID(tenant), nil
}

func requireRAG() error {
	if ragService == nil {
		return errors.New("rag service not configured")
	}
	return nil
}
