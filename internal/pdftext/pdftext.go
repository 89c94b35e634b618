// Package pdftext turns PDF bytes into plain text for the extractor. Lines
// in the output follow the text lines of the page layout.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var (
	// ErrNotPDF is returned when the input lacks a PDF header.
	ErrNotPDF = errors.New("input is not a PDF document")

	// ErrNoText is returned when a PDF has no extractable text.
	ErrNoText = errors.New("no text content found in PDF")
)

var pdfHeader = []byte("%PDF-")

// TextExtractor converts a PDF document into text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// PDFCPUExtractor reads PDFs with pdfcpu and decodes their page content
// streams.
type PDFCPUExtractor struct {
	conf *model.Configuration
}

// NewPDFCPUExtractor creates an extractor with pdfcpu's default configuration.
func NewPDFCPUExtractor() *PDFCPUExtractor {
	return &PDFCPUExtractor{conf: model.NewDefaultConfiguration()}
}

// IsPDF reports whether data starts with a PDF header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfHeader)
}

// ExtractText returns the text of every page, pages separated by a blank
// line. The context is checked between pages.
func (e *PDFCPUExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if !IsPDF(data) {
		return "", ErrNotPDF
	}

	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), e.conf)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	var pages []string
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
		if err != nil {
			return "", fmt.Errorf("failed to read content of page %d: %w", pageNr, err)
		}
		if r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read content of page %d: %w", pageNr, err)
		}

		if text := ContentStreamText(content); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return "", ErrNoText
	}
	return strings.Join(pages, "\n\n"), nil
}
