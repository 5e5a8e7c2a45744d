// Package extract converts uploaded document bytes to plain text. It
// dispatches on the declared filename extension, delegates image
// recognition to an OCR capability, and enforces the size, emptiness,
// and word-count policy after extraction.
package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/hyperjump/bunseki/internal/fault"
	"github.com/hyperjump/bunseki/internal/models"
	"github.com/hyperjump/bunseki/pkg/utils"
)

// OCR recognizes text in images. Implementations may block; callers pass
// a context so slow recognition can be cancelled.
type OCR interface {
	// Image recognizes text in a single encoded image (JPEG or PNG).
	Image(ctx context.Context, img []byte) (string, error)
	// PDF rasterizes the pages of a PDF and recognizes text on each.
	// Invoked only when the PDF has no native text layer.
	PDF(ctx context.Context, doc []byte) (string, error)
}

// Extractor extracts plain text from uploaded documents.
type Extractor struct {
	ocr OCR
}

// NewExtractor returns an Extractor using the given OCR capability.
// ocr may be nil, in which case image uploads and text-less PDFs fail.
func NewExtractor(ocr OCR) *Extractor {
	return &Extractor{ocr: ocr}
}

// formatFromFilename resolves the declared extension to a supported
// format. The format set is closed; anything else is rejected.
func formatFromFilename(filename string) (models.InputFormat, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch f := models.InputFormat(ext); f {
	case models.FormatPDF, models.FormatDOCX, models.FormatTXT,
		models.FormatJPG, models.FormatJPEG:
		return f, nil
	}
	return "", fault.Newf(fault.CodeUnsupportedFormat,
		"unsupported file format %q", ext)
}

// Extract converts content to plain text according to the declared
// filename. Policy checks run in a fixed order: size precheck, format
// dispatch, extraction, emptiness, then the word ceiling. The word
// ceiling is enforced strictly after full extraction, never inside a
// per-format capability.
func (e *Extractor) Extract(ctx context.Context, content []byte, filename string) (*models.ExtractedDocument, error) {
	if len(content) == 0 {
		return nil, fault.New(fault.CodeFileEmpty, "uploaded file is empty")
	}
	sizeMB := float64(len(content)) / (1 << 20)
	if sizeMB > models.MaxFileSizeMB {
		return nil, fault.Newf(fault.CodeFileTooLarge,
			"file exceeds %dMB size limit", models.MaxFileSizeMB)
	}

	format, err := formatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	var (
		text    string
		ocrUsed bool
	)
	switch format {
	case models.FormatTXT:
		text, err = extractPlain(content)
	case models.FormatDOCX:
		text, err = extractDOCX(content)
	case models.FormatPDF:
		text, ocrUsed, err = e.extractPDF(ctx, content)
	case models.FormatJPG, models.FormatJPEG:
		text, err = e.recognizeImage(ctx, content)
		ocrUsed = true
	}
	if err != nil {
		if fault.CodeOf(err) == fault.CodeInternal {
			err = fault.Wrap(fault.CodeExtractionFailed,
				"unable to extract text from document", err)
		}
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fault.New(fault.CodeEmptyExtraction,
			"no readable text found in document")
	}
	wordCount := utils.WordCount(text)
	if wordCount > models.MaxWordCount {
		return nil, fault.Newf(fault.CodeWordLimitExceeded,
			"document exceeds %d-word limit after extraction", models.MaxWordCount)
	}

	return &models.ExtractedDocument{
		Text:       text,
		Format:     format,
		FileSizeMB: sizeMB,
		WordCount:  wordCount,
		OCRUsed:    ocrUsed,
	}, nil
}

// recognizeImage runs the OCR capability on an uploaded image.
func (e *Extractor) recognizeImage(ctx context.Context, img []byte) (string, error) {
	if e.ocr == nil {
		return "", fault.New(fault.CodeExtractionFailed,
			"image uploads are not supported on this deployment")
	}
	text, err := e.ocr.Image(ctx, img)
	if err != nil {
		return "", fault.Wrap(fault.CodeExtractionFailed,
			"unable to recognize text in image", err)
	}
	return text, nil
}
