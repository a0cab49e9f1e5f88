package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-io/docchat/internal/core/domain"
	"github.com/docchat-io/docchat/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
}

func (m *mockRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return m.output, m.err
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestSupports(t *testing.T) {
	e := New()
	assert.True(t, e.Supports(".pdf"))
	assert.False(t, e.Supports(".txt"))
	assert.False(t, e.Supports(""))
}

func TestExtract_EmptyPath(t *testing.T) {
	e := NewWithRunner(&mockRunner{})

	passages, err := e.Extract(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, passages)
}

func TestExtract_SplitsPages(t *testing.T) {
	runner := &mockRunner{
		output: []byte("First page text.\n\f  Second page text.  \n\fThird page.\f"),
	}
	e := NewWithRunner(runner)

	passages, err := e.Extract(context.Background(), "/doc.pdf")
	require.NoError(t, err)
	require.Len(t, passages, 3)
	assert.Equal(t, "First page text.", passages[0])
	assert.Equal(t, "Second page text.", passages[1])
	assert.Equal(t, "Third page.", passages[2])
}

func TestExtract_DropsBlankPages(t *testing.T) {
	runner := &mockRunner{
		output: []byte("Content.\f   \n\t\fMore content.\f\f"),
	}
	e := NewWithRunner(runner)

	passages, err := e.Extract(context.Background(), "/doc.pdf")
	require.NoError(t, err)
	require.Len(t, passages, 2)
	assert.Equal(t, "Content.", passages[0])
	assert.Equal(t, "More content.", passages[1])
}

func TestExtract_EmptyOutput(t *testing.T) {
	runner := &mockRunner{output: []byte("  \f \f\n")}
	e := NewWithRunner(runner)

	passages, err := e.Extract(context.Background(), "/doc.pdf")
	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)
	assert.Nil(t, passages)
}

func TestExtract_RunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("pdftotext crashed")}
	e := NewWithRunner(runner)

	passages, err := e.Extract(context.Background(), "/doc.pdf")
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Contains(t, err.Error(), "pdftotext failed")
	assert.Nil(t, passages)
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Error(t, ErrPDFToolNotFound)
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}
