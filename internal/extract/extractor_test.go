package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hyperjump/bunseki/internal/fault"
	"github.com/hyperjump/bunseki/internal/models"
)

// stubOCR returns canned text, or an error, for both image and PDF calls.
type stubOCR struct {
	text    string
	err     error
	imgCall int
	pdfCall int
}

func (s *stubOCR) Image(ctx context.Context, img []byte) (string, error) {
	s.imgCall++
	return s.text, s.err
}

func (s *stubOCR) PDF(ctx context.Context, doc []byte) (string, error) {
	s.pdfCall++
	return s.text, s.err
}

// buildDocx assembles a minimal .docx zip with the given document XML.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// buildPDF assembles a one-page uncompressed PDF around the given
// content stream, computing the cross-reference offsets so the file is
// structurally valid.
func buildPDF(t *testing.T, contentStream string) []byte {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(contentStream), contentStream),
	}

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects)+1)
	for i, obj := range objects {
		offsets[i+1] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xref)
	return []byte(b.String())
}

func TestExtract_plainText(t *testing.T) {
	e := NewExtractor(nil)
	doc, err := e.Extract(context.Background(), []byte("Hello world\nLine two"), "notes.txt")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Text != "Hello world\nLine two" {
		t.Errorf("text = %q", doc.Text)
	}
	if doc.Format != models.FormatTXT {
		t.Errorf("format = %s", doc.Format)
	}
	if doc.WordCount != 4 {
		t.Errorf("word count = %d", doc.WordCount)
	}
	if doc.OCRUsed {
		t.Error("OCR must not be used for plain text")
	}
}

func TestExtract_plainTextInvalidUTF8(t *testing.T) {
	e := NewExtractor(nil)
	doc, err := e.Extract(context.Background(), []byte("hello\x80world"), "a.txt")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Text != "hello�world" {
		t.Errorf("text = %q", doc.Text)
	}
}

func TestExtract_docxParagraphs(t *testing.T) {
	xml := `<w:document><w:body>` +
		`<w:p w:rsidR="00A"><w:r><w:t>First </w:t></w:r><w:r><w:t xml:space="preserve">paragraph.</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>   </w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	e := NewExtractor(nil)
	doc, err := e.Extract(context.Background(), buildDocx(t, xml), "report.docx")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "First paragraph.\n\nSecond paragraph."
	if doc.Text != want {
		t.Errorf("text = %q, want %q", doc.Text, want)
	}
	if doc.Format != models.FormatDOCX {
		t.Errorf("format = %s", doc.Format)
	}
}

func TestExtract_docxUnescapesEntities(t *testing.T) {
	xml := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Profit &amp; loss &lt;draft&gt;, &quot;final&quot; &apos;v2&apos;</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Literal &amp;lt; stays escaped</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	e := NewExtractor(nil)
	doc, err := e.Extract(context.Background(), buildDocx(t, xml), "finance.docx")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "Profit & loss <draft>, \"final\" 'v2'\n\nLiteral &lt; stays escaped"
	if doc.Text != want {
		t.Errorf("text = %q, want %q", doc.Text, want)
	}
}

func TestExtract_docxNotAZip(t *testing.T) {
	e := NewExtractor(nil)
	_, err := e.Extract(context.Background(), []byte("plainly not a zip"), "broken.docx")
	if err == nil {
		t.Fatal("expected error for corrupt docx")
	}
}

func TestExtract_imageUsesOCR(t *testing.T) {
	ocr := &stubOCR{text: "Recognized image text"}
	e := NewExtractor(ocr)
	doc, err := e.Extract(context.Background(), []byte{0xFF, 0xD8, 0xFF, 0xE0}, "scan.jpg")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !doc.OCRUsed {
		t.Error("OCRUsed must be true for image formats")
	}
	if ocr.imgCall != 1 {
		t.Errorf("image OCR called %d times", ocr.imgCall)
	}
	if doc.Text != "Recognized image text" {
		t.Errorf("text = %q", doc.Text)
	}
}

func TestExtract_blankImage(t *testing.T) {
	e := NewExtractor(&stubOCR{text: "   "})
	_, err := e.Extract(context.Background(), []byte{0xFF, 0xD8}, "blank.jpeg")
	if fault.CodeOf(err) != fault.CodeEmptyExtraction {
		t.Errorf("code = %s, want %s", fault.CodeOf(err), fault.CodeEmptyExtraction)
	}
}

func TestExtract_ocrFailure(t *testing.T) {
	e := NewExtractor(&stubOCR{err: errors.New("tesseract unavailable")})
	_, err := e.Extract(context.Background(), []byte{0xFF, 0xD8}, "scan.jpg")
	if fault.CodeOf(err) != fault.CodeExtractionFailed {
		t.Errorf("code = %s, want %s", fault.CodeOf(err), fault.CodeExtractionFailed)
	}
}

func TestExtract_imageWithoutOCRCapability(t *testing.T) {
	e := NewExtractor(nil)
	_, err := e.Extract(context.Background(), []byte{0xFF, 0xD8}, "scan.jpg")
	if fault.CodeOf(err) != fault.CodeExtractionFailed {
		t.Errorf("code = %s, want %s", fault.CodeOf(err), fault.CodeExtractionFailed)
	}
}

func TestExtract_sizeChecks(t *testing.T) {
	e := NewExtractor(nil)
	_, err := e.Extract(context.Background(), nil, "a.txt")
	if fault.CodeOf(err) != fault.CodeFileEmpty {
		t.Errorf("empty file code = %s", fault.CodeOf(err))
	}

	big := bytes.Repeat([]byte("a"), 10*1024*1024+1)
	_, err = e.Extract(context.Background(), big, "a.txt")
	if fault.CodeOf(err) != fault.CodeFileTooLarge {
		t.Errorf("oversized file code = %s", fault.CodeOf(err))
	}
}

func TestExtract_unsupportedFormat(t *testing.T) {
	e := NewExtractor(nil)
	for _, name := range []string{"sheet.xlsx", "deck.pptx", "page.html", "noext", "archive.tar.gz"} {
		_, err := e.Extract(context.Background(), []byte("content here"), name)
		if fault.CodeOf(err) != fault.CodeUnsupportedFormat {
			t.Errorf("%s: code = %s", name, fault.CodeOf(err))
		}
	}
}

func TestExtract_wordLimitAfterExtraction(t *testing.T) {
	e := NewExtractor(nil)
	over := strings.Repeat("word ", 1001)
	_, err := e.Extract(context.Background(), []byte(over), "long.txt")
	if fault.CodeOf(err) != fault.CodeWordLimitExceeded {
		t.Errorf("code = %s, want %s", fault.CodeOf(err), fault.CodeWordLimitExceeded)
	}

	at := strings.Repeat("word ", 1000)
	doc, err := e.Extract(context.Background(), []byte(at), "max.txt")
	if err != nil {
		t.Fatalf("1000 words should pass: %v", err)
	}
	if doc.WordCount != 1000 {
		t.Errorf("word count = %d", doc.WordCount)
	}
}

// A PDF with a native text layer never reaches OCR.
func TestExtract_pdfTextLayerSuppressesOCR(t *testing.T) {
	ocr := &stubOCR{text: "should never be used"}
	e := NewExtractor(ocr)
	content := buildPDF(t, "BT /F1 12 Tf 72 720 Td (Hello from the text layer) Tj ET")

	doc, err := e.Extract(context.Background(), content, "report.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(doc.Text, "Hello from the text layer") {
		t.Errorf("text = %q", doc.Text)
	}
	if doc.OCRUsed {
		t.Error("OCRUsed must be false when the text layer is present")
	}
	if ocr.pdfCall != 0 {
		t.Errorf("PDF OCR called %d times, want 0", ocr.pdfCall)
	}
}

// A PDF whose pages carry no text triggers the OCR fallback exactly once.
func TestExtract_pdfBlankPageFallsBackToOCR(t *testing.T) {
	ocr := &stubOCR{text: "Scanned page text"}
	e := NewExtractor(ocr)
	content := buildPDF(t, "")

	doc, err := e.Extract(context.Background(), content, "scan.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Text != "Scanned page text" {
		t.Errorf("text = %q", doc.Text)
	}
	if !doc.OCRUsed {
		t.Error("OCRUsed must be true when the fallback fired")
	}
	if ocr.pdfCall != 1 {
		t.Errorf("PDF OCR called %d times, want 1", ocr.pdfCall)
	}
	if ocr.imgCall != 0 {
		t.Errorf("image OCR called %d times, want 0", ocr.imgCall)
	}
}

// Without an OCR capability a text-less PDF surfaces as an empty extraction.
func TestExtract_pdfBlankPageWithoutOCR(t *testing.T) {
	e := NewExtractor(nil)
	_, err := e.Extract(context.Background(), buildPDF(t, ""), "scan.pdf")
	if fault.CodeOf(err) != fault.CodeEmptyExtraction {
		t.Errorf("code = %s, want %s", fault.CodeOf(err), fault.CodeEmptyExtraction)
	}
}

func TestExtract_corruptPDF(t *testing.T) {
	e := NewExtractor(&stubOCR{text: "never reached"})
	_, err := e.Extract(context.Background(), []byte("not a pdf at all"), "doc.pdf")
	if fault.CodeOf(err) != fault.CodeExtractionFailed {
		t.Errorf("code = %s, want %s", fault.CodeOf(err), fault.CodeExtractionFailed)
	}
}
