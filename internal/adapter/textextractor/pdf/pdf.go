// Package pdf extracts plain text from PDF resumes locally.
//
// Extraction is page by page; pages that fail to render are skipped so a
// single bad page does not lose the whole document.
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/CHRISDANIEL145/HR-Simulation-AI/internal/domain"
	"github.com/CHRISDANIEL145/HR-Simulation-AI/pkg/textx"
)

// Extractor implements domain.TextExtractor for PDF files.
type Extractor struct{}

// New returns a PDF text extractor.
func New() *Extractor { return &Extractor{} }

// ExtractPath reads the PDF at path and returns its sanitized plain text.
// An unreadable file or a document with no extractable text is a validation
// error: the caller should ask for a text-based PDF.
func (e *Extractor) ExtractPath(_ context.Context, fileName, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: could not read PDF %q: %v", domain.ErrInvalidArgument, fileName, err)
	}
	defer func() { _ = f.Close() }()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	out := textx.SanitizeText(b.String())
	if out == "" {
		return "", fmt.Errorf("%w: no extractable text in %q", domain.ErrInvalidArgument, fileName)
	}
	return out, nil
}
