package flat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-io/docchat/internal/core/domain"
)

func TestBuild(t *testing.T) {
	idx, err := Build([][]float32{{1, 0}, {0, 1}, {1, 1}})
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 2, idx.Dimensions())
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build(nil)
	assert.Error(t, err)
}

func TestBuild_MixedDimensions(t *testing.T) {
	_, err := Build([][]float32{{1, 0}, {0, 1, 2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestSearch_NearestFirst(t *testing.T) {
	idx, err := Build([][]float32{
		{0, 0},
		{10, 10},
		{1, 1},
	})
	require.NoError(t, err)

	hits, err := idx.Search([]float32{0.9, 0.9}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, 2, hits[0].Ordinal)
	assert.Equal(t, 0, hits[1].Ordinal)
	assert.Equal(t, 1, hits[2].Ordinal)

	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance,
			"distances must be non-decreasing")
	}
}

func TestSearch_TiesBrokenByLowestOrdinal(t *testing.T) {
	// Two identical vectors: the lower ordinal must win.
	idx, err := Build([][]float32{
		{5, 5},
		{1, 1},
		{1, 1},
	})
	require.NoError(t, err)

	hits, err := idx.Search([]float32{1, 1}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, 1, hits[0].Ordinal)
	assert.Equal(t, 2, hits[1].Ordinal)
	assert.Equal(t, hits[0].Distance, hits[1].Distance)
}

func TestSearch_KLargerThanCorpus(t *testing.T) {
	idx, err := Build([][]float32{{1, 0}, {0, 1}})
	require.NoError(t, err)

	hits, err := idx.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearch_NonPositiveK(t *testing.T) {
	idx, err := Build([][]float32{{1, 0}})
	require.NoError(t, err)

	hits, err := idx.Search([]float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_DimensionMismatch(t *testing.T) {
	idx, err := Build([][]float32{{1, 0}})
	require.NoError(t, err)

	_, err = idx.Search([]float32{1, 0, 0}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestMarshalRoundTrip(t *testing.T) {
	idx, err := Build([][]float32{
		{0.25, -1.5, 3.75},
		{1.125, 0, -0.5},
		{2, 2, 2},
	})
	require.NoError(t, err)

	blob, err := idx.MarshalBinary()
	require.NoError(t, err)

	restored, err := Unmarshal(blob)
	require.NoError(t, err)
	assert.Equal(t, idx.Len(), restored.Len())
	assert.Equal(t, idx.Dimensions(), restored.Dimensions())

	query := []float32{1, 0, 0}
	want, err := idx.Search(query, 3)
	require.NoError(t, err)
	got, err := restored.Search(query, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got, "round-trip must reproduce identical search results")
}

func TestUnmarshal_Truncated(t *testing.T) {
	idx, err := Build([][]float32{{1, 2}, {3, 4}})
	require.NoError(t, err)
	blob, err := idx.MarshalBinary()
	require.NoError(t, err)

	for _, cut := range []int{0, 4, len(blob) - 1} {
		_, err := Unmarshal(blob[:cut])
		require.Error(t, err, "cut at %d", cut)
		assert.ErrorIs(t, err, domain.ErrIndexCorrupt)
	}
}
