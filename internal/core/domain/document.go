package domain

import (
	"errors"
	"time"
)

// TenantID scopes all retrieval storage. There is no cross-tenant visibility.
type TenantID string

// String returns the string representation.
func (t TenantID) String() string {
	return string(t)
}

// IsZero reports whether the tenant ID is empty.
func (t TenantID) IsZero() bool {
	return t == ""
}

// TenantStats summarises one tenant's corpus.
type TenantStats struct {
	Tenant TenantID `json:"tenant"`
	Chunks int      `json:"chunks"`
}

// FailureKind classifies why a document was skipped during ingestion.
type FailureKind string

// Failure kinds, mirroring the error taxonomy.
const (
	FailureExtraction      FailureKind = "extraction"
	FailureUpstream        FailureKind = "upstream"
	FailureUpstreamTimeout FailureKind = "upstream_timeout"
	FailureRateLimited     FailureKind = "rate_limited"
	FailureInvalidInput    FailureKind = "invalid_input"
	FailureUnknown         FailureKind = "unknown"
)

// ClassifyFailure maps an error onto a FailureKind.
func ClassifyFailure(err error) FailureKind {
	switch {
	case errors.Is(err, ErrUpstreamTimeout):
		return FailureUpstreamTimeout
	case errors.Is(err, ErrRateLimited):
		return FailureRateLimited
	case errors.Is(err, ErrUpstream):
		return FailureUpstream
	case errors.Is(err, ErrExtraction), errors.Is(err, ErrUnsupportedType):
		return FailureExtraction
	case errors.Is(err, ErrInvalidInput):
		return FailureInvalidInput
	default:
		return FailureUnknown
	}
}

// DocumentFailure records one skipped document.
type DocumentFailure struct {
	Path    string      `json:"path"`
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

// DocumentResult records one successfully ingested document.
type DocumentResult struct {
	Path   string `json:"path"`
	Chunks int    `json:"chunks"`
}

// IngestReport summarises a batch ingestion for a tenant.
// Partial success is normal: failed documents are listed, the rest are stored.
type IngestReport struct {
	BatchID    string            `json:"batch_id"`
	Tenant     TenantID          `json:"tenant"`
	Ingested   []DocumentResult  `json:"ingested"`
	Failures   []DocumentFailure `json:"failures,omitempty"`
	Skipped    []string          `json:"skipped,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
}

// TotalChunks returns the number of chunks stored by the batch.
func (r *IngestReport) TotalChunks() int {
	total := 0
	for _, d := range r.Ingested {
		total += d.Chunks
	}
	return total
}

// DocumentsProcessed returns the number of documents the batch looked at.
func (r *IngestReport) DocumentsProcessed() int {
	return len(r.Ingested) + len(r.Failures) + len(r.Skipped)
}

// HasFailures reports whether any document was skipped.
func (r *IngestReport) HasFailures() bool {
	return len(r.Failures) > 0
}
