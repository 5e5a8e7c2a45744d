// Package fault provides the structured error type used across the
// processing pipeline. Every component raises a named code; the HTTP
// layer maps codes to status classes and wire messages.
package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a failure class. Values are stable wire identifiers;
// add sparingly.
type Code string

const (
	// Sanitizer codes.
	CodeNullInput         Code = "null_input"
	CodeEmptyInput        Code = "empty_input"
	CodeInputTooLong      Code = "input_too_long"
	CodeInvalidInput      Code = "invalid_input"
	CodeWordLimitExceeded Code = "word_limit_exceeded"
	CodeNoWords           Code = "no_words"

	// Extractor codes.
	CodeUnsupportedFormat Code = "unsupported_format"
	CodeFileEmpty         Code = "file_empty"
	CodeFileTooLarge      Code = "file_too_large"
	CodeEmptyExtraction   Code = "empty_extraction"
	CodeExtractionFailed  Code = "extraction_failed"

	// Classifier and prompt builder codes.
	CodeOutOfRange             Code = "out_of_range"
	CodeUnsupportedFeature     Code = "unsupported_feature"
	CodeEmptyContent           Code = "empty_content"
	CodeWordCountRequired      Code = "word_count_required"
	CodeQuestionsRequired      Code = "questions_required"
	CodeTargetLanguageRequired Code = "target_language_required"

	// Governor and throttle codes.
	CodeDailyLimitReached Code = "daily_limit_reached"
	CodeRateLimited       Code = "rate_limit_exceeded"

	// Generation codes.
	CodeGenerationTimeout       Code = "generation_timeout"
	CodeGenerationProviderError Code = "generation_provider_error"
	CodeMalformedOutput         Code = "malformed_generation_output"

	// CodeInternal is the single last-resort mapping for unclassified
	// failures. Its wire message never carries cause text.
	CodeInternal Code = "internal_error"
)

// HTTPStatus maps a code to its HTTP status.
func HTTPStatus(c Code) int {
	switch c {
	case CodeRateLimited, CodeDailyLimitReached:
		return http.StatusTooManyRequests
	case CodeGenerationProviderError:
		return http.StatusBadGateway
	case CodeGenerationTimeout:
		return http.StatusGatewayTimeout
	case CodeInternal, CodeMalformedOutput:
		return http.StatusInternalServerError
	default:
		// Every remaining code is a contract violation on the input.
		return http.StatusBadRequest
	}
}

// Error is a failure with a stable code and a user-safe message.
// The wrapped cause, if any, is for logs only and never reaches the wire.
type Error struct {
	code       Code
	msg        string
	retryAfter int
	cause      error
}

// New returns an Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Newf returns an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error carrying cause for logging. The message stays
// user-safe; cause text is only visible through Error()/Unwrap().
func Wrap(code Code, msg string, cause error) *Error {
	return &Error{code: code, msg: msg, cause: cause}
}

// RateLimited returns a throttle rejection carrying the retry hint.
func RateLimited(retryAfterSeconds int) *Error {
	return &Error{
		code:       CodeRateLimited,
		msg:        "too many processing requests, retry later",
		retryAfter: retryAfterSeconds,
	}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Code returns the failure code.
func (e *Error) Code() Code { return e.code }

// Message returns the user-safe message without cause text.
func (e *Error) Message() string { return e.msg }

// RetryAfterSeconds returns the retry hint, or 0 when not applicable.
func (e *Error) RetryAfterSeconds() int { return e.retryAfter }

// CodeOf extracts the code from err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.code
	}
	return CodeInternal
}

// MessageOf extracts the user-safe message from err. Unclassified errors
// yield a generic message so internals never leak to the wire.
func MessageOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.msg
	}
	return "unexpected processing error"
}

// RetryAfterOf extracts the retry hint from err, or 0.
func RetryAfterOf(err error) int {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.retryAfter
	}
	return 0
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
