package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the ingest report", func(t *testing.T) {
		rag := &mockRAGService{
			report: &domain.IngestReport{
				BatchID:  "batch-1",
				Ingested: []domain.DocumentResult{{Path: "a.pdf", Chunks: 3}, {Path: "b.txt", Chunks: 2}},
				Failures: []domain.DocumentFailure{{Path: "c.pdf", Kind: domain.FailureExtraction}},
			},
		}
		server, err := NewServer(&Ports{RAG: rag, DefaultTenant: "default"})
		require.NoError(t, err)

		_, output, err := server.handleIngest(ctx, nil, IngestInput{Paths: []string{"a.pdf", "b.txt", "c.pdf"}})
		require.NoError(t, err)

		assert.Equal(t, "batch-1", output.BatchID)
		assert.Equal(t, 5, output.Chunks)
		assert.Len(t, output.Ingested, 2)
		assert.Len(t, output.Failures, 1)
		assert.Equal(t, domain.TenantID("default"), rag.lastTenant)
		assert.Equal(t, []string{"a.pdf", "b.txt", "c.pdf"}, rag.lastPaths)
	})

	t.Run("returns error when the batch fails", func(t *testing.T) {
		rag := &mockRAGService{err: context.Canceled}
		server, err := NewServer(&Ports{RAG: rag})
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{Tenant: "acme"})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, domain.TenantID("acme"), rag.lastTenant)
	})
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		rag := &mockRAGService{results: []string{"first chunk", "second chunk"}}
		server, err := NewServer(&Ports{RAG: rag, DefaultTenant: "default"})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Tenant: "acme", Query: "inventory", TopK: 2})
		require.NoError(t, err)

		assert.Equal(t, 2, output.Count)
		assert.Equal(t, []string{"first chunk", "second chunk"}, output.Results)
		assert.Equal(t, domain.TenantID("acme"), rag.lastTenant)
		assert.Equal(t, "inventory", rag.lastQuery)
		assert.Equal(t, 2, rag.lastTopK)
	})

	t.Run("nil results become an empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{RAG: &mockRAGService{}})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "x"})
		require.NoError(t, err)
		assert.NotNil(t, output.Results)
		assert.Zero(t, output.Count)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		rag := &mockRAGService{err: errors.New("search failed")}
		server, err := NewServer(&Ports{RAG: rag})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleInsights(t *testing.T) {
	ctx := context.Background()

	insights := &mockInsightService{
		insight: &domain.Insight{
			Query:    "margins",
			Response: "# GROWTH ACCELERATOR",
			Sources:  []string{"chunk"},
		},
	}
	server, err := NewServer(&Ports{RAG: &mockRAGService{}, Insights: insights, DefaultTenant: "default"})
	require.NoError(t, err)

	result, output, err := server.handleInsights(ctx, nil, InsightsInput{Query: "margins"})
	require.NoError(t, err)

	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "# GROWTH ACCELERATOR", text.Text)
	assert.Equal(t, "margins", output.Query)
	assert.Equal(t, domain.TenantID("default"), insights.lastTenant)

	insights.err = context.Canceled
	_, _, err = server.handleInsights(ctx, nil, InsightsInput{})
	assert.ErrorIs(t, err, context.Canceled)
}
