package models

// Contract limits shared across validation and extraction.
const (
	// MaxFileSizeMB is the upload size ceiling in megabytes.
	MaxFileSizeMB = 10
	// MaxWordCount is the word ceiling applied to every document,
	// pasted or extracted.
	MaxWordCount = 1000
	// MaxInputChars is the character ceiling for pasted text.
	MaxInputChars = 10000
)

// InputFormat is a supported upload format, derived from the filename
// extension. The set is closed at five formats.
type InputFormat string

const (
	FormatPDF  InputFormat = "pdf"
	FormatDOCX InputFormat = "docx"
	FormatTXT  InputFormat = "txt"
	FormatJPG  InputFormat = "jpg"
	FormatJPEG InputFormat = "jpeg"
)

// Image reports whether the format is an image format, which always
// requires OCR.
func (f InputFormat) Image() bool {
	return f == FormatJPG || f == FormatJPEG
}

// ExtractedDocument is the result of extracting text from an upload.
// It is created once per request by the extractor, never mutated, and
// discarded when the pipeline completes. Invariant: OCRUsed is true iff
// Format is an image format or the fallback fired on a page document.
type ExtractedDocument struct {
	Text       string      `json:"text"`
	Format     InputFormat `json:"input_format"`
	FileSizeMB float64     `json:"file_size_mb"`
	WordCount  int         `json:"word_count"`
	OCRUsed    bool        `json:"ocr_used"`
}

// PromptContext carries the validated inputs the prompt builder consumes.
// Built once from a validated request; immutable after construction.
type PromptContext struct {
	Feature        Feature
	Text           string
	WordCount      *int
	Questions      []string
	TargetLanguage string
}

// UsageSnapshot is a read-only view of a client's usage for today,
// supplied by the usage store. The governor never mutates it.
type UsageSnapshot struct {
	Tier             Tier `json:"tier"`
	ActionsUsedToday int  `json:"actions_used_today"`
}
