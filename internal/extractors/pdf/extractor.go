// Package pdf extracts passages from PDF documents by shelling out to
// the pdftotext tool from poppler-utils. Each page of the PDF becomes
// one passage; pdftotext separates pages with form feed characters.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/docchat-io/docchat/internal/core/domain"
	"github.com/docchat-io/docchat/internal/core/ports/driven"
)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// execRunner runs commands via os/exec. It is the production CommandRunner.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor extracts page passages from PDF files using pdftotext.
type Extractor struct {
	runner driven.CommandRunner
}

// New creates a PDF extractor backed by the real pdftotext binary.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates a PDF extractor with a custom command runner.
// Used in tests to avoid a pdftotext dependency.
func NewWithRunner(runner driven.CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Supports reports whether the extractor handles the given extension.
func (e *Extractor) Supports(ext string) bool {
	return ext == ".pdf"
}

// Extract runs pdftotext over the document and returns one trimmed,
// non-empty passage per page, in page order.
func (e *Extractor) Extract(ctx context.Context, path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("document path is empty: %w", domain.ErrInvalidInput)
	}

	// -layout preserves the physical layout, "-" writes to stdout.
	out, err := e.runner.Run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed for %s: %w: %w", path, err, domain.ErrExtraction)
	}

	// pdftotext emits a form feed after each page.
	pages := strings.Split(string(out), "\f")
	passages := make([]string, 0, len(pages))
	for _, page := range pages {
		text := strings.TrimSpace(page)
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

// CheckAvailable verifies pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return `PDF extraction requires pdftotext from poppler-utils:
  macOS:  brew install poppler
  Debian: apt install poppler-utils
  Fedora: dnf install poppler-utils`
}
