package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShortTextPassesThrough(t *testing.T) {
	c := New()

	chunks := c.Split("a short passage")

	require.Len(t, chunks, 1)
	assert.Equal(t, "a short passage", chunks[0])
}

func TestSplitLongTextOverlaps(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(4))
	text := "abcdefghijklmnopqrstuvwxyz"

	chunks := c.Split(text)

	require.Len(t, chunks, 4)
	assert.Equal(t, "abcdefghij", chunks[0])
	// Each chunk starts chunkSize-overlap runes after the previous one.
	assert.Equal(t, "ghijklmnop", chunks[1])
	assert.Equal(t, "mnopqrstuv", chunks[2])
	assert.Equal(t, "stuvwxyz", chunks[3])
}

func TestSplitWhitespaceOnlyDropped(t *testing.T) {
	c := New()

	assert.Empty(t, c.Split("   \n\t  "))
}

func TestNewClampsExcessiveOverlap(t *testing.T) {
	c := New(WithChunkSize(100), WithOverlap(100))
	text := strings.Repeat("x", 250)

	chunks := c.Split(text)

	// Overlap was clamped, so splitting terminates.
	assert.True(t, len(chunks) > 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100)
	}
}

func TestSplitAllPreservesOrder(t *testing.T) {
	c := New(WithChunkSize(10), WithOverlap(0))

	out := c.SplitAll([]string{"first", "0123456789AB", "last"})

	require.Len(t, out, 4)
	assert.Equal(t, "first", out[0])
	assert.Equal(t, "0123456789", out[1])
	assert.Equal(t, "AB", out[2])
	assert.Equal(t, "last", out[3])
}
