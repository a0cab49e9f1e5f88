package domain

// Passage represents one indexed unit of document text, typically a page.
// Passages are created in bulk at index-build time and never mutated;
// the ordered sequence of all passages for a document is the corpus.
type Passage struct {
	// Ordinal is the position within the corpus. Ordinals are contiguous
	// after empty units are dropped during extraction.
	Ordinal int

	// Text is the whitespace-trimmed passage content. Never empty.
	Text string
}

// Hit is a single nearest-neighbour match from the vector index.
type Hit struct {
	// Ordinal identifies the matched passage.
	Ordinal int

	// Distance is the squared Euclidean distance to the query vector.
	// Lower is more similar.
	Distance float32
}
