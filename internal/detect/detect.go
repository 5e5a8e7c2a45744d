// Package detect identifies the source language of a document. Detection
// is best-effort enrichment for translation responses; it never fails a
// request.
package detect

import (
	"github.com/pemistahl/lingua-go"
)

// candidates is the fixed language set loaded at startup.
var candidates = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Russian,
	lingua.Japanese,
	lingua.Chinese,
	lingua.Korean,
	lingua.Arabic,
	lingua.Hindi,
	lingua.Turkish,
	lingua.Polish,
	lingua.Swedish,
}

// Detector identifies the most likely language of a text.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over the candidate language set.
func New() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(candidates...).
			Build(),
	}
}

// Language returns the detected language name (e.g. "English"), or ""
// when no candidate is a confident match.
func (d *Detector) Language(text string) string {
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return lang.String()
}
