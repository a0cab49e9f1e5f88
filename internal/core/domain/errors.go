package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates an empty or whitespace-only question.
	// Handled without touching retrieval, generation or persistence.
	ErrEmptyInput = errors.New("empty input")

	// ErrSessionNotFound indicates a session that does not exist or is
	// not owned by the requesting user.
	ErrSessionNotFound = errors.New("session not found")

	// Index Errors.

	// ErrExtraction indicates the source document could not be opened
	// or parsed. Fatal at startup: no usable index can be built.
	ErrExtraction = errors.New("document extraction failed")

	// ErrEmptyCorpus indicates extraction produced zero passages.
	// Fatal at startup: no usable index can be built.
	ErrEmptyCorpus = errors.New("no passages extracted from document")

	// ErrIndexCorrupt indicates persisted index artifacts are unreadable
	// or inconsistent. Triggers a full rebuild, not fatal.
	ErrIndexCorrupt = errors.New("index artifacts corrupt")

	// ErrDimensionMismatch indicates a vector does not match the index
	// dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// Generation Errors.

	// ErrGeneration indicates the language model call failed.
	ErrGeneration = errors.New("generation failed")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// reachable. Retrieval is impossible without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not reachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
