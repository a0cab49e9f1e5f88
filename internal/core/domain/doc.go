// Package domain defines the core business entities for docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Passage: An indexed unit of document text
//   - Session: A persisted, owned conversation thread
//   - Message: A single turn within a session
//   - ChatRequest / ChatReply: The chat exchange contract
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain
