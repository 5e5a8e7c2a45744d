// Package ocr provides optical character recognition backed by Tesseract,
// with PDF page rasterization via MuPDF for scanned documents.
package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
)

// rasterDPI is the resolution used when rasterizing PDF pages for
// recognition. 300dpi is the usual floor for reliable OCR.
const rasterDPI = 300

// Engine recognizes text with Tesseract. A fresh Tesseract client is
// created per call; the underlying C API is not safe for concurrent use
// on a shared handle.
type Engine struct {
	languages []string
}

// NewEngine returns an Engine recognizing the given languages
// (Tesseract codes, e.g. "eng"). An empty list uses Tesseract's default.
func NewEngine(languages []string) *Engine {
	return &Engine{languages: languages}
}

// Image recognizes text in a single encoded image.
func (e *Engine) Image(ctx context.Context, img []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer client.Close()
	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("set ocr languages: %w", err)
		}
	}
	if err := client.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize image: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// PDF rasterizes each page of doc and recognizes text on it, joining
// non-empty pages with blank lines. The context is checked between pages
// so a cancelled request does not grind through a long scan.
func (e *Engine) PDF(ctx context.Context, doc []byte) (string, error) {
	d, err := fitz.NewFromMemory(doc)
	if err != nil {
		return "", fmt.Errorf("open pdf for rasterization: %w", err)
	}
	defer d.Close()

	var pages []string
	for n := 0; n < d.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		png, err := d.ImagePNG(n, rasterDPI)
		if err != nil {
			return "", fmt.Errorf("rasterize page %d: %w", n+1, err)
		}
		text, err := e.Image(ctx, png)
		if err != nil {
			return "", fmt.Errorf("recognize page %d: %w", n+1, err)
		}
		if text != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}
