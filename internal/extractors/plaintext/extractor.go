// Package plaintext extracts passages from plain text and Markdown files.
// Passages are paragraphs: runs of text separated by one or more blank lines.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/docchat-io/docchat/internal/core/domain"
	"github.com/docchat-io/docchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// paragraphSep matches one or more blank lines, tolerating trailing
// whitespace and Windows line endings.
var paragraphSep = regexp.MustCompile(`(?:\r?\n[ \t]*){2,}`)

// Extractor handles plain text and Markdown documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports reports whether the extractor handles the given extension.
func (e *Extractor) Supports(ext string) bool {
	switch ext {
	case ".txt", ".md", ".markdown", ".text":
		return true
	}
	return false
}

// Extract reads the file and returns one trimmed, non-empty passage per
// paragraph, in document order.
func (e *Extractor) Extract(_ context.Context, path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("document path is empty: %w", domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w: %w", path, err, domain.ErrExtraction)
	}

	paragraphs := paragraphSep.Split(string(data), -1)
	passages := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		text := strings.TrimSpace(p)
		if text == "" {
			continue
		}
		passages = append(passages, text)
	}

	if len(passages) == 0 {
		return nil, fmt.Errorf("no text extracted from %s: %w", path, domain.ErrEmptyCorpus)
	}
	return passages, nil
}
