package tui

import "errors"

// ErrMissingRAGService is returned when the RAG service is not provided.
var ErrMissingRAGService = errors.New("tui: rag service is required")

// ErrMissingTenant is returned when no tenant is configured.
var ErrMissingTenant = errors.New("tui: tenant is required")
