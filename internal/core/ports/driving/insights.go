package driving

import (
	"context"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

// InsightService produces business insight reports from a tenant's documents.
type InsightService interface {
	// Insights returns a report for the query. An empty query uses
	// domain.DefaultInsightQuery. Retrieval failures degrade to a general
	// report rather than an error.
	Insights(ctx context.Context, tenant domain.TenantID, query string) (*domain.Insight, error)
}
