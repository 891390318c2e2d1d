// Command bizrag is the bizrag CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/bizrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/bizrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bizrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bizrag/internal/adapters/driving/cli"
	"github.com/custodia-labs/bizrag/internal/core/ports/driven"
	"github.com/custodia-labs/bizrag/internal/core/services"
	"github.com/custodia-labs/bizrag/internal/extractors"
	"github.com/custodia-labs/bizrag/internal/logger"
	"github.com/custodia-labs/bizrag/internal/postprocessors/chunker"
)

var log = logger.Scoped("main")

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var closers []func() error
	cli.SetBootstrap(func(ctx context.Context, opts cli.Options) (*cli.Services, error) {
		svc, c, err := wire(ctx, opts)
		closers = c
		return svc, err
	})

	err := cli.Execute(ctx)
	closeAll(closers)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// closeAll runs every closer and logs the ones that fail.
func closeAll(closers []func() error) {
	for _, c := range closers {
		if err := c(); err != nil {
			log.Warn("close provider: %v", err)
		}
	}
}

func wire(_ context.Context, opts cli.Options) (*cli.Services, []func() error, error) {
	var closers []func() error

	var cfg driven.ConfigStore
	if opts.NoConfig {
		cfg = memory.NewConfigStore()
	} else {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, nil, err
		}
		store, err := file.NewConfigStore(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("load config: %w", err)
		}
		cfg = store
	}
	settings := services.LoadSettings(cfg)

	embedder, err := ai.CreateEmbeddingService(settings.Embedding)
	if err != nil {
		return nil, nil, fmt.Errorf("create embedding service: %w", err)
	}
	if embedder == nil {
		log.Warn("embedding provider %q is not configured; ingest and queries will fail", settings.Embedding.Provider)
	} else {
		closers = append(closers, embedder.Close)
	}

	registry := extractors.DefaultRegistry()
	rag := services.NewRAGService(
		registry,
		chunker.FromSettings(settings.Chunker),
		embedder,
		memory.NewRetrievalStore(),
		services.WithConcurrency(settings.Embedding.Concurrency),
		services.WithDefaultTopK(settings.Search.TopK),
	)

	var insightOpts []services.InsightOption
	gen, err := ai.CreateGenerator(settings.Generation)
	if err != nil {
		log.Warn("generation disabled: %v", err)
	} else if gen != nil {
		insightOpts = append(insightOpts, services.WithGenerator(gen))
		closers = append(closers, gen.Close)
	}
	insights := services.NewInsightService(rag, insightOpts...)

	if !opts.NoConfig {
		prompts, err := file.NewPromptStore("")
		if err != nil {
			log.Warn("using built-in prompts: %v", err)
		} else {
			insights.SetPromptStore(prompts)
		}
	}

	return &cli.Services{
		RAG:       rag,
		Insights:  insights,
		Config:    cfg,
		Validator: ai.NewConfigValidator(),
		Files:     registry,
		Settings:  settings,
	}, closers, nil
}
