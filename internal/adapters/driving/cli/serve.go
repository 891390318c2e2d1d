package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bizrag/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/bizrag/internal/adapters/driving/watcher"
	"github.com/custodia-labs/bizrag/internal/core/domain"
	"github.com/custodia-labs/bizrag/internal/logger"
)

var (
	serveAddr  string
	serveWatch string
	serveFiles []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the JSON HTTP API:

  GET  /healthz
  GET  /api/v1/tenants
  POST /api/v1/tenants/:tenant/documents   multipart "files"
  POST /api/v1/tenants/:tenant/query       {"query": "...", "top_k": 5}
  GET  /api/v1/tenants/:tenant/insights?query=...

With --watch, files created or changed under the directory are ingested
into --tenant as they appear; files already there are ingested at start.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr)")
	serveCmd.Flags().StringVar(&serveWatch, "watch", "", "directory to watch and ingest")
	serveCmd.Flags().StringSliceVarP(&serveFiles, "file", "f", nil, "document to ingest at start (repeatable)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requireRAG(); err != nil {
		return err
	}
	if _, err := ingestFiles(cmd, serveFiles); err != nil {
		return err
	}

	server, err := httpapi.NewServer(&httpapi.Ports{RAG: ragService, Insights: insightService})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if serveWatch != "" {
		w, err := newWatcher(cmd, serveWatch)
		if err != nil {
			return err
		}
		if _, err := w.Scan(ctx); err != nil {
			return fmt.Errorf("initial scan failed: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Close()
		cmd.Printf("Watching %s\n", serveWatch)
	}

	addr := serveAddr
	if addr == "" {
		addr = appSettings.Server.Addr
	}
	cmd.Printf("bizrag API listening on %s\n", addr)
	return server.Run(ctx, addr)
}

func newWatcher(cmd *cobra.Command, dir string) (*watcher.Watcher, error) {
	if fileFilter == nil {
		return nil, errors.New("file filter not configured")
	}
	t, err := currentTenant()
	if err != nil {
		return nil, err
	}

	log := logger.Scoped("serve")
	return watcher.New(ragService, t, dir, fileFilter, watcher.WithReportHandler(
		func(report *domain.IngestReport, err error) {
			if err != nil {
				log.Warn("watch ingest: %v", err)
				return
			}
			if report.DocumentsProcessed() > 0 {
				printReport(cmd.ErrOrStderr(), report)
			}
		},
	)), nil
}
