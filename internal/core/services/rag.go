package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/bizrag/internal/core/domain"
	"github.com/custodia-labs/bizrag/internal/core/ports/driven"
	"github.com/custodia-labs/bizrag/internal/core/ports/driving"
	"github.com/custodia-labs/bizrag/internal/logger"
)

// Ensure RAGService implements the interface.
var _ driving.RAGService = (*RAGService)(nil)

var ragLog = logger.Scoped("rag")

const defaultTopK = 5

// RAGService runs the ingestion pipeline (extract, chunk, embed, store)
// and answers retrieval queries against a tenant's corpus.
type RAGService struct {
	extractors  driven.ExtractorRegistry
	chunker     driven.Chunker
	embedder    driven.EmbeddingService
	store       driven.RetrievalStore
	concurrency int
	topK        int
	now         func() time.Time
}

// RAGOption configures a RAGService.
type RAGOption func(*RAGService)

// WithConcurrency sets how many embedding calls run at once per document.
// Values below 1 are ignored.
func WithConcurrency(n int) RAGOption {
	return func(s *RAGService) {
		if n >= 1 {
			s.concurrency = n
		}
	}
}

// WithDefaultTopK sets the result count used when a query passes topK <= 0.
func WithDefaultTopK(k int) RAGOption {
	return func(s *RAGService) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) RAGOption {
	return func(s *RAGService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewRAGService creates a new RAG service.
// The embedder may be nil, in which case ingestion and queries fail
// with domain.ErrEmbeddingUnavailable.
func NewRAGService(
	extractors driven.ExtractorRegistry,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
	store driven.RetrievalStore,
	opts ...RAGOption,
) *RAGService {
	s := &RAGService{
		extractors:  extractors,
		chunker:     chunker,
		embedder:    embedder,
		store:       store,
		concurrency: 1,
		topK:        defaultTopK,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessDocuments ingests every path for tenant, in order.
// A failing document is recorded in the report and the batch moves on;
// only context cancellation aborts the whole batch.
func (s *RAGService) ProcessDocuments(
	ctx context.Context, tenant domain.TenantID, paths []string,
) (*domain.IngestReport, error) {
	if tenant.IsZero() {
		return nil, fmt.Errorf("tenant is required: %w", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	report := &domain.IngestReport{
		BatchID:   uuid.NewString(),
		Tenant:    tenant,
		Ingested:  []domain.DocumentResult{},
		StartedAt: s.now(),
	}

	logger.Section("Ingestion")
	ragLog.Info("batch %s: %d documents for tenant %q", report.BatchID, len(paths), tenant)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("batch %s aborted: %w", report.BatchID, err)
		}

		chunks, err := s.processDocument(ctx, tenant, path)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, fmt.Errorf("batch %s aborted: %w", report.BatchID, ctx.Err())
		case err != nil:
			kind := domain.ClassifyFailure(err)
			ragLog.Warn("skipping %s (%s): %v", path, kind, err)
			report.Failures = append(report.Failures, domain.DocumentFailure{
				Path:    path,
				Kind:    kind,
				Message: err.Error(),
			})
		case chunks == 0:
			ragLog.Debug("%s produced no chunks", path)
			report.Skipped = append(report.Skipped, path)
		default:
			ragLog.Debug("%s: %d chunks stored", path, chunks)
			report.Ingested = append(report.Ingested, domain.DocumentResult{Path: path, Chunks: chunks})
		}
	}

	report.FinishedAt = s.now()
	ragLog.Info("batch %s: %d ingested, %d failed, %d chunks in %s",
		report.BatchID, len(report.Ingested), len(report.Failures),
		report.TotalChunks(), report.FinishedAt.Sub(report.StartedAt))
	return report, nil
}

// processDocument returns the number of chunks stored for path.
func (s *RAGService) processDocument(ctx context.Context, tenant domain.TenantID, path string) (int, error) {
	extractor, err := s.extractors.Get(filepath.Ext(path))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	text, err := extractor.Extract(ctx, path)
	if err != nil {
		return 0, err
	}

	chunks := s.chunker.Chunk(text)
	if len(chunks) == 0 {
		return 0, nil
	}

	embeddings, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return 0, err
	}

	if err := s.store.Ingest(ctx, tenant, chunks, embeddings); err != nil {
		return 0, fmt.Errorf("store %s: %w", filepath.Base(path), err)
	}
	return len(chunks), nil
}

// embedChunks embeds every chunk on a bounded pool.
// Results are slotted by index so the output order matches chunks.
func (s *RAGService) embedChunks(ctx context.Context, chunks []string) ([][]float32, error) {
	embeddings := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, chunk := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vec, err := s.embedder.Embed(gctx, chunk)
			if err != nil {
				return fmt.Errorf("embed chunk %d: %w", i, upstreamDeadline(ctx, err))
			}
			embeddings[i] = vec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return embeddings, nil
}

// Query embeds the query and returns the tenant's best matching chunks.
func (s *RAGService) Query(ctx context.Context, tenant domain.TenantID, query string, topK int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is empty: %w", domain.ErrInvalidInput)
	}
	if tenant.IsZero() {
		return nil, fmt.Errorf("tenant is required: %w", domain.ErrInvalidInput)
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if topK <= 0 {
		topK = s.topK
	}

	ragLog.Debug("query %q for tenant %q (top %d)", query, tenant, topK)

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", upstreamDeadline(ctx, err))
	}
	return s.store.Search(ctx, tenant, vec, topK)
}

// Stats returns the stored chunk count of every tenant.
func (s *RAGService) Stats() []domain.TenantStats {
	tenants := s.store.Tenants()
	stats := make([]domain.TenantStats, len(tenants))
	for i, t := range tenants {
		stats[i] = domain.TenantStats{Tenant: t, Chunks: s.store.Count(t)}
	}
	return stats
}

// upstreamDeadline classifies a bare deadline error as an upstream timeout
// unless the caller's own context is what expired.
func upstreamDeadline(ctx context.Context, err error) error {
	if ctx.Err() != nil || domain.IsUpstream(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamTimeout, err)
	}
	return err
}
