// Package tui provides an interactive terminal interface for querying a
// tenant's documents.
package tui

import (
	"github.com/custodia-labs/bizrag/internal/core/domain"
	"github.com/custodia-labs/bizrag/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
type Ports struct {
	// RAG answers queries.
	RAG driving.RAGService

	// Insights builds reports. Optional; the insights key is disabled without it.
	Insights driving.InsightService

	// Tenant is the tenant every query runs against.
	Tenant domain.TenantID

	// TopK is the number of results per query. 0 uses the service default.
	TopK int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.RAG == nil {
		return ErrMissingRAGService
	}
	if p.Tenant.IsZero() {
		return ErrMissingTenant
	}
	return nil
}
