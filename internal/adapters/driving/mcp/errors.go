// Package mcp provides an MCP (Model Context Protocol) server adapter for bizrag.
// It lets AI assistants ingest documents into a tenant, search it and request insight reports.
package mcp

import "errors"

// ErrMissingRAGService is returned when the RAG service is not provided.
var ErrMissingRAGService = errors.New("mcp: rag service is required")
