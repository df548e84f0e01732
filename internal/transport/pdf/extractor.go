// Package pdf extracts per-page plain text from PDF files.
package pdf

import (
	"bytes"
	"fmt"

	pdfreader "github.com/ledongthuc/pdf"
)

// Extractor parses PDF bytes into one text unit per page. It operates on
// in-memory bytes, so no temp files are created.
type Extractor struct{}

// NewExtractor creates a PDF text extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractPages returns the plain text of each page in page order. A PDF
// with no pages yields an empty slice.
func (e *Extractor) ExtractPages(data []byte) (pages []string, err error) {
	// ledongthuc/pdf panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	r, err := pdfreader.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	pages = make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
