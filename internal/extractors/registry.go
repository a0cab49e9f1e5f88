package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docchat-io/docchat/internal/core/domain"
	"github.com/docchat-io/docchat/internal/core/ports/driven"
	"github.com/docchat-io/docchat/internal/extractors/chunker"
)

// Registry holds the available extractors and picks one per document.
// Extracted passages pass through a chunker so that no single passage
// exceeds the embedding-friendly size limit.
type Registry struct {
	extractors []driven.Extractor
	chunker    *chunker.Chunker
}

// NewRegistry creates a registry over the given extractors.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	return &Registry{
		extractors: extractors,
		chunker:    chunker.New(),
	}
}

// ForPath returns the extractor handling the document's file extension.
func (r *Registry) ForPath(path string) (driven.Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range r.extractors {
		if e.Supports(ext) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no extractor for %q documents: %w", ext, domain.ErrExtraction)
}

// Extract picks the extractor for path, runs it and splits overlong
// passages into chunks.
func (r *Registry) Extract(ctx context.Context, path string) ([]string, error) {
	e, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}
	passages, err := e.Extract(ctx, path)
	if err != nil {
		return nil, err
	}
	return r.chunker.SplitAll(passages), nil
}
