package driven

import "context"

// Extractor splits a source document into an ordered sequence of non-empty
// passage texts, one per document unit (a PDF page, a paragraph). Per-unit
// whitespace is stripped; units yielding empty text are dropped and the
// remaining passages are renumbered contiguously.
//
// Implementations return an error wrapping domain.ErrExtraction when the
// document cannot be opened or parsed, and domain.ErrEmptyCorpus when no
// passages result. Both are fatal for index building.
type Extractor interface {
	// Extract reads the document at path and returns its passage texts
	// in document order.
	Extract(ctx context.Context, path string) ([]string, error)

	// Supports reports whether this extractor handles the given file
	// extension (lower-case, including the leading dot).
	Supports(ext string) bool
}

// CommandRunner executes an external command and returns its combined
// standard output. Extractors that shell out (pdftotext) depend on this
// seam so tests can substitute canned output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
