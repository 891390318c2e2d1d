// Package extractors provides TextExtractor implementations for the document
// formats accepted on upload. Each extractor reads a file from disk and
// returns its raw text; normalisation is left to the chunker.
//
// Extractors are registered by file extension with a Registry at startup.
package extractors
