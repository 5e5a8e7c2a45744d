package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hyperjump/bunseki/internal/fault"
)

// extractPDF extracts the native text layer from PDF bytes. When the
// text layer yields nothing (scanned documents), recognition falls back
// to OCR over rasterized pages. OCR is never run to double-check a
// successful native extraction.
func (e *Extractor) extractPDF(ctx context.Context, content []byte) (text string, ocrUsed bool, err error) {
	text, err = pdfTextLayer(content)
	if err != nil {
		return "", false, fault.Wrap(fault.CodeExtractionFailed,
			"unable to extract text from PDF", err)
	}
	if strings.TrimSpace(text) != "" {
		return text, false, nil
	}
	if e.ocr == nil {
		// No OCR capability: an empty text layer surfaces as an
		// empty extraction in Extract.
		return "", false, nil
	}
	text, err = e.ocr.PDF(ctx, content)
	if err != nil {
		return "", false, fault.Wrap(fault.CodeExtractionFailed,
			"unable to recognize text in scanned PDF", err)
	}
	return text, true, nil
}

// pdfTextLayer reads every page's plain text, joining non-empty pages
// with blank lines.
func pdfTextLayer(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}
	var pages []string
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		if trimmed := strings.TrimSpace(pageText); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}
