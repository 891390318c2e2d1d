package mcp

import (
	"context"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

// mockRAGService is a mock implementation of driving.RAGService.
type mockRAGService struct {
	report  *domain.IngestReport
	results []string
	stats   []domain.TenantStats
	err     error

	lastTenant domain.TenantID
	lastQuery  string
	lastTopK   int
	lastPaths  []string
}

func (m *mockRAGService) ProcessDocuments(
	_ context.Context, tenant domain.TenantID, paths []string,
) (*domain.IngestReport, error) {
	m.lastTenant = tenant
	m.lastPaths = paths
	return m.report, m.err
}

func (m *mockRAGService) Query(_ context.Context, tenant domain.TenantID, query string, topK int) ([]string, error) {
	m.lastTenant = tenant
	m.lastQuery = query
	m.lastTopK = topK
	return m.results, m.err
}

func (m *mockRAGService) Stats() []domain.TenantStats {
	return m.stats
}

// mockInsightService is a mock implementation of driving.InsightService.
type mockInsightService struct {
	insight *domain.Insight
	err     error

	lastTenant domain.TenantID
	lastQuery  string
}

func (m *mockInsightService) Insights(_ context.Context, tenant domain.TenantID, query string) (*domain.Insight, error) {
	m.lastTenant = tenant
	m.lastQuery = query
	return m.insight, m.err
}
