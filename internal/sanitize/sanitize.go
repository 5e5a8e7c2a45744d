// Package sanitize validates pasted or extracted text against the input
// contract: printability, length, alphabetic density, and word bounds.
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/bunseki/internal/fault"
	"github.com/hyperjump/bunseki/internal/models"
	"github.com/hyperjump/bunseki/pkg/utils"
)

// minLetters is the minimum number of alphabetic characters required for
// input to count as readable text rather than binary junk.
const minLetters = 2

// Text validates raw input and returns the trimmed string. raw is a
// pointer so an absent field is distinguishable from an empty one.
//
// Checks run in a fixed order so the first violation reported is
// deterministic: nil, empty after trim, character ceiling, printable and
// alphabetic density, then word bounds. Side-effect free and idempotent:
// Text applied to its own output returns the same string.
func Text(raw *string) (string, error) {
	if raw == nil {
		return "", fault.New(fault.CodeNullInput, "no input text provided")
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return "", fault.New(fault.CodeEmptyInput, "input text cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > models.MaxInputChars {
		return "", fault.Newf(fault.CodeInputTooLong,
			"input exceeds maximum allowed length of %d characters", models.MaxInputChars)
	}
	if !printable(trimmed) || !hasSufficientText(trimmed) {
		return "", fault.New(fault.CodeInvalidInput, "input contains non-text or unreadable content")
	}
	words := utils.WordCount(trimmed)
	if words > models.MaxWordCount {
		return "", fault.Newf(fault.CodeWordLimitExceeded,
			"input exceeds %d-word limit", models.MaxWordCount)
	}
	if words == 0 {
		return "", fault.New(fault.CodeNoWords, "input contains no words")
	}
	return trimmed, nil
}

// printable reports whether s contains only printable runes and ordinary
// whitespace (space, tab, newline, carriage return).
func printable(s string) bool {
	for _, r := range s {
		switch r {
		case '\t', '\n', '\r':
			continue
		}
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// hasSufficientText reports whether s contains at least minLetters
// alphabetic characters.
func hasSufficientText(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if letters >= minLetters {
				return true
			}
		}
	}
	return false
}
