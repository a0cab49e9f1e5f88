package driven

import (
	"context"

	"github.com/docchat-io/docchat/internal/core/domain"
)

// VectorIndex provides nearest-neighbour search over passage embeddings.
// Implementations are immutable after construction and safe for concurrent
// readers without locking.
type VectorIndex interface {
	// Search returns the k nearest vectors to query by squared Euclidean
	// distance, ascending, ties broken by lowest ordinal. The result
	// length is min(k, Len()).
	Search(query []float32, k int) ([]domain.Hit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Dimensions returns the vector dimension the index was built with.
	Dimensions() int

	// MarshalBinary serialises the index. Deserialising the result must
	// reproduce identical search output for identical queries.
	MarshalBinary() ([]byte, error)
}

// IndexSnapshot pairs a vector index with the passages it was built from
// and the identity of the embedding model that produced the vectors.
// Invariant: Index.Len() == len(Passages).
type IndexSnapshot struct {
	Index    VectorIndex
	Passages []domain.Passage

	// EmbeddingModel is the model name recorded at build time. A loaded
	// snapshot whose model differs from the configured one is stale.
	EmbeddingModel string
}

// IndexStore persists and restores index snapshots, so the corpus is not
// re-embedded on every start.
type IndexStore interface {
	// Load restores the most recent snapshot. It returns (nil, nil) when
	// no snapshot has been saved, and an error wrapping
	// domain.ErrIndexCorrupt when artifacts exist but are unreadable or
	// inconsistent. Callers treat both as a cache miss.
	Load(ctx context.Context) (*IndexSnapshot, error)

	// Save atomically persists the snapshot. A crash mid-save must never
	// leave a partially written artifact observable by Load.
	Save(ctx context.Context, snap *IndexSnapshot) error
}
