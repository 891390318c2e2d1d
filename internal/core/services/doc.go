// Package services implements the driving port interfaces.
//
//   - RAGService: batch ingestion (extract, chunk, embed, store) and ranked queries
//   - InsightService: turns retrieved chunks into a business report
//   - LoadSettings: typed settings from a ConfigStore
//
// Services only talk to infrastructure through driven ports, so every
// adapter can be swapped for a test double.
package services
