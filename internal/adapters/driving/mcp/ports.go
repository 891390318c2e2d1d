package mcp

import (
	"github.com/custodia-labs/bizrag/internal/core/domain"
	"github.com/custodia-labs/bizrag/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// RAG ingests documents and answers retrieval queries.
	RAG driving.RAGService

	// Insights builds business reports. Optional; the insights tool is
	// only registered when set.
	Insights driving.InsightService

	// DefaultTenant is used when a tool call omits the tenant.
	DefaultTenant domain.TenantID
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.RAG == nil {
		return ErrMissingRAGService
	}
	return nil
}

func (p *Ports) tenant(name string) domain.TenantID {
	if name != "" {
		return domain.TenantID(name)
	}
	return p.DefaultTenant
}
