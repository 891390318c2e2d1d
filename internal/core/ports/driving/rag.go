package driving

import (
	"context"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

// RAGService ingests documents for a tenant and answers retrieval queries.
type RAGService interface {
	// ProcessDocuments extracts, chunks, embeds and stores each document in order.
	// Per-document failures are recorded in the report; the error is only
	// non-nil when the whole batch could not run (e.g. cancelled context).
	ProcessDocuments(ctx context.Context, tenant domain.TenantID, paths []string) (*domain.IngestReport, error)

	// Query embeds the query and returns up to topK relevant chunks.
	Query(ctx context.Context, tenant domain.TenantID, query string, topK int) ([]string, error)

	// Stats returns the stored chunk count of every tenant, sorted by tenant.
	Stats() []domain.TenantStats
}
