// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Extractor: Splits a source document into passages
//   - EmbeddingService: Maps text to fixed-dimension vectors
//   - VectorIndex: Nearest-neighbour search over passage embeddings
//   - IndexStore: Durable persistence of the index snapshot
//   - LLMService: Text completion, blocking and streaming
//   - ChatStore: Session and message persistence
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
