// Package docx extracts passages from Word documents. A .docx file is a
// ZIP archive; the text lives in word/document.xml as paragraphs of runs.
// Each non-empty paragraph becomes one passage.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/docchat-io/docchat/internal/core/domain"
	"github.com/docchat-io/docchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports reports whether the extractor handles the given extension.
func (e *Extractor) Supports(ext string) bool {
	return ext == ".docx"
}

// Extract opens the archive and returns one trimmed, non-empty passage
// per paragraph, in document order.
func (e *Extractor) Extract(_ context.Context, path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("document path is empty: %w", domain.ErrInvalidInput)
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w: %w", path, err, domain.ErrExtraction)
	}
	defer reader.Close()

	content, err := documentXMLContent(&reader.Reader)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w: %w", path, err, domain.ErrExtraction)
	}

	passages, err := paragraphTexts(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w: %w", path, err, domain.ErrExtraction)
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("no text extracted from %s: %w", path, domain.ErrEmptyCorpus)
	}
	return passages, nil
}

// documentXMLContent reads word/document.xml from the archive.
func documentXMLContent(reader *zip.Reader) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("word/document.xml not found")
}

// documentXML mirrors the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// paragraphTexts returns the trimmed text of each non-empty paragraph.
func paragraphTexts(content []byte) ([]string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}

	var passages []string
	for _, para := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, r := range para.Runs {
			for _, t := range r.Text {
				sb.WriteString(t.Content)
			}
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		passages = append(passages, text)
	}
	return passages, nil
}
