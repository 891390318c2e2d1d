// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TextExtractor / ExtractorRegistry: Turn uploaded files into text
//   - Chunker: Splits text into overlapping chunks
//   - EmbeddingService: Generates vector embeddings
//   - RetrievalStore: Per-tenant chunk and embedding storage with ranked search
//   - ConfigStore: Application configuration
//   - PromptStore: Editable prompt templates
//   - AIConfigValidator: Provider connectivity checks
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Generator: Language model for insight reports. Without it, the template report is used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
