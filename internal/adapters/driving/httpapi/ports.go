// Package httpapi exposes ingestion, retrieval and insights over a JSON HTTP API.
package httpapi

import (
	"errors"

	"github.com/custodia-labs/bizrag/internal/core/ports/driving"
)

// ErrMissingRAGService is returned when the RAG service port is nil.
var ErrMissingRAGService = errors.New("rag service is required")

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	RAG driving.RAGService

	// Insights is optional; the insights route answers 404 without it.
	Insights driving.InsightService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.RAG == nil {
		return ErrMissingRAGService
	}
	return nil
}
