package domain

import "errors"

// Domain errors represent business logic failures.
// Adapters wrap them with context; callers classify with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input, such as
	// a chunk/embedding length mismatch on ingest.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a document type no extractor handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrExtraction indicates a source document was unreadable or unparseable.
	// The document is skipped; the rest of the batch continues.
	ErrExtraction = errors.New("text extraction failed")

	// ErrUpstream indicates the embedding or generation provider failed.
	ErrUpstream = errors.New("upstream provider error")

	// ErrUpstreamTimeout indicates a provider call exceeded its deadline.
	// It is retryable.
	ErrUpstreamTimeout = errors.New("upstream provider timeout")

	// ErrRateLimited indicates the provider rejected the call with a rate limit.
	// It is retryable.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)

// IsRetryable reports whether err is a transient provider failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUpstreamTimeout) || errors.Is(err, ErrRateLimited)
}

// IsUpstream reports whether err originated at an external provider.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream) || IsRetryable(err)
}
