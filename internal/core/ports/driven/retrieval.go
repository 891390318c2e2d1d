package driven

import (
	"context"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

// RetrievalStore holds chunk texts and their embeddings per tenant and
// returns the most relevant chunks for a query embedding.
type RetrievalStore interface {
	// Ingest appends chunks and their embeddings, in lockstep, for the tenant.
	// chunks[i] corresponds to embeddings[i]. Returns domain.ErrInvalidInput
	// and appends nothing when the inputs are inconsistent.
	Ingest(ctx context.Context, tenant domain.TenantID, chunks []string, embeddings [][]float32) error

	// Search returns up to topK chunk texts ordered by descending score.
	// An unknown tenant yields an empty result. topK <= 0 selects the default.
	Search(ctx context.Context, tenant domain.TenantID, query []float32, topK int) ([]string, error)

	// Count returns the number of chunks stored for the tenant.
	Count(tenant domain.TenantID) int

	// Tenants returns the tenants that hold at least one chunk, sorted.
	Tenants() []domain.TenantID
}
