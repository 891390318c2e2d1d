package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

// IngestInput is the input schema for the ingest_documents tool.
type IngestInput struct {
	Tenant string   `json:"tenant,omitempty" jsonschema:"tenant to ingest into (defaults to the server tenant)"`
	Paths  []string `json:"paths" jsonschema:"local file paths of the documents to ingest"`
}

// IngestOutput is the output schema for the ingest_documents tool.
type IngestOutput struct {
	BatchID  string                   `json:"batch_id"`
	Ingested []domain.DocumentResult  `json:"ingested"`
	Failures []domain.DocumentFailure `json:"failures,omitempty"`
	Skipped  []string                 `json:"skipped,omitempty"`
	Chunks   int                      `json:"chunks"`
}

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Tenant string `json:"tenant,omitempty" jsonschema:"tenant to search (defaults to the server tenant)"`
	Query  string `json:"query" jsonschema:"the search query to find relevant passages"`
	TopK   int    `json:"top_k,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []string `json:"results"`
	Count   int      `json:"count"`
}

// InsightsInput is the input schema for the insights tool.
type InsightsInput struct {
	Tenant string `json:"tenant,omitempty" jsonschema:"tenant to analyse (defaults to the server tenant)"`
	Query  string `json:"query,omitempty" jsonschema:"what the report should focus on"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_documents",
		Description: "Extract, chunk, embed and store local documents for a tenant",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Return the passages of a tenant's documents most relevant to a query",
	}, s.handleSearch)

	if s.ports.Insights != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "insights",
			Description: "Build a markdown business insight report from a tenant's documents",
		}, s.handleInsights)
	}
}

// handleIngest handles the ingest_documents tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	report, err := s.ports.RAG.ProcessDocuments(ctx, s.ports.tenant(input.Tenant), input.Paths)
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		BatchID:  report.BatchID,
		Ingested: report.Ingested,
		Failures: report.Failures,
		Skipped:  report.Skipped,
		Chunks:   report.TotalChunks(),
	}, nil
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.RAG.Query(ctx, s.ports.tenant(input.Tenant), input.Query, input.TopK)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	if results == nil {
		results = []string{}
	}

	return nil, SearchOutput{Results: results, Count: len(results)}, nil
}

// handleInsights handles the insights tool invocation.
func (s *Server) handleInsights(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input InsightsInput,
) (*mcp.CallToolResult, domain.Insight, error) {
	insight, err := s.ports.Insights.Insights(ctx, s.ports.tenant(input.Tenant), input.Query)
	if err != nil {
		return nil, domain.Insight{}, err
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: insight.Response}},
	}, *insight, nil
}
