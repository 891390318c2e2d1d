package driven

import "context"

// TextExtractor pulls plain text out of a source document.
type TextExtractor interface {
	// SupportedExtensions returns the lower-case file extensions handled, with the dot.
	SupportedExtensions() []string

	// Extract reads the document at path and returns its raw text.
	// Failures are wrapped with domain.ErrExtraction.
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorRegistry selects a TextExtractor for a document.
type ExtractorRegistry interface {
	// Register adds an extractor for all of its extensions.
	Register(e TextExtractor)

	// Get returns the extractor for the extension, or domain.ErrUnsupportedType.
	Get(ext string) (TextExtractor, error)

	// Supports reports whether the path has a registered extension.
	Supports(path string) bool
}
