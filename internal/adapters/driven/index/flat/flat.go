// Package flat provides an exact, brute-force vector index over float32
// embeddings using squared Euclidean distance.
package flat

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viant/vec/search"

	"github.com/docchat-io/docchat/internal/core/domain"
	"github.com/docchat-io/docchat/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an immutable flat vector index. All vectors share one dimension,
// fixed at build time. The distance metric is squared Euclidean (L2²);
// search is exact and reproducible: equal distances are broken by lowest
// ordinal. Safe for concurrent readers.
type Index struct {
	dim  int
	vecs [][]float32
}

// Build bulk-loads all vectors into a new index. Every vector must have the
// same non-zero dimension.
func Build(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return nil, errors.New("flat: no vectors to index")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, errors.New("flat: zero-dimension vector")
	}
	for j := range vectors {
		if len(vectors[j]) != dim {
			return nil, fmt.Errorf("flat: vector %d has dimension %d, index has %d: %w",
				j, len(vectors[j]), dim, domain.ErrDimensionMismatch)
		}
	}

	vecs := make([][]float32, len(vectors))
	for j := range vectors {
		vecs[j] = append([]float32(nil), vectors[j]...)
	}

	return &Index{dim: dim, vecs: vecs}, nil
}

// Search returns the k nearest vectors to query, ascending by squared
// Euclidean distance, ties broken by lowest ordinal. The result length is
// min(k, Len()). A non-positive k yields no results.
func (i *Index) Search(query []float32, k int) ([]domain.Hit, error) {
	if len(query) != i.dim {
		return nil, fmt.Errorf("flat: query dimension %d, index dimension %d: %w",
			len(query), i.dim, domain.ErrDimensionMismatch)
	}
	if k <= 0 || len(i.vecs) == 0 {
		return nil, nil
	}

	q := search.Float32s(query)
	hits := make([]domain.Hit, len(i.vecs))
	for j := range i.vecs {
		d := q.EuclideanDistance(i.vecs[j])
		hits[j] = domain.Hit{Ordinal: j, Distance: d * d}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Distance != hits[b].Distance {
			return hits[a].Distance < hits[b].Distance
		}
		return hits[a].Ordinal < hits[b].Ordinal
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len() int {
	return len(i.vecs)
}

// Dimensions returns the vector dimension the index was built with.
func (i *Index) Dimensions() int {
	return i.dim
}

// MarshalBinary stores: dim(uint32), n(uint32), then n vectors of
// dim little-endian IEEE 754 float32 values.
func (i *Index) MarshalBinary() ([]byte, error) {
	out := make([]byte, 8, 8+4*i.dim*len(i.vecs))
	binary.LittleEndian.PutUint32(out[0:4], uint32(i.dim))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(i.vecs)))

	buf := make([]byte, 4)
	for _, vec := range i.vecs {
		for _, v := range vec {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
			out = append(out, buf...)
		}
	}
	return out, nil
}

// Unmarshal restores an index serialised by MarshalBinary. The round-trip
// reproduces identical search results for identical queries.
func Unmarshal(data []byte) (*Index, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("flat: truncated header: %w", domain.ErrIndexCorrupt)
	}
	dim := int(binary.LittleEndian.Uint32(data[0:4]))
	n := int(binary.LittleEndian.Uint32(data[4:8]))
	if dim <= 0 || n <= 0 {
		return nil, fmt.Errorf("flat: invalid header dim=%d n=%d: %w", dim, n, domain.ErrIndexCorrupt)
	}
	if len(data) != 8+4*dim*n {
		return nil, fmt.Errorf("flat: blob length %d does not match dim=%d n=%d: %w",
			len(data), dim, n, domain.ErrIndexCorrupt)
	}

	off := 8
	vecs := make([][]float32, n)
	for j := range vecs {
		vec := make([]float32, dim)
		for d := range vec {
			vec[d] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vecs[j] = vec
	}
	return &Index{dim: dim, vecs: vecs}, nil
}
