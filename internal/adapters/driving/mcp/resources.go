package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/bizrag/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for bizrag resources.
	uriScheme = "bizrag://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "tenants",
		Name:        "tenants",
		Description: "Tenants with stored documents and their chunk counts",
		MIMEType:    "application/json",
	}, s.handleTenantsResource)

	if s.ports.Insights != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "tenants/{tenant}/insights",
			Name:        "tenant-insights",
			Description: "Default insight report for a tenant",
			MIMEType:    "text/markdown",
		}, s.handleInsightsResource)
	}
}

// handleTenantsResource returns every tenant and its corpus size.
func (s *Server) handleTenantsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats := s.ports.RAG.Stats()
	if stats == nil {
		stats = []domain.TenantStats{}
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling tenants: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleInsightsResource returns the default report for a tenant.
func (s *Server) handleInsightsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	tenant := extractTenant(req.Params.URI)
	if tenant == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	insight, err := s.ports.Insights.Insights(ctx, domain.TenantID(tenant), "")
	if err != nil {
		return nil, fmt.Errorf("building insights: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     insight.Response,
		}},
	}, nil
}

// extractTenant extracts the tenant from a URI like bizrag://tenants/{tenant}/insights.
func extractTenant(uri string) string {
	const prefix = uriScheme + "tenants/"
	const suffix = "/insights"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	tenant := strings.TrimSuffix(uri, suffix)
	if strings.Contains(tenant, "/") {
		return ""
	}
	return tenant
}
