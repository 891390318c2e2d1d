package driven

// Chunker splits normalised document text into overlapping chunks.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// Chunk returns the chunks of text in document order.
	// An empty or whitespace-only text yields no chunks.
	Chunk(text string) []string
}
