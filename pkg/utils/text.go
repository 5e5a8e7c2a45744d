// Package utils provides shared utilities for text and logging.
package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// WordCount returns the number of whitespace-separated tokens in s.
// This is the single counting rule shared by validation, extraction, and
// question scaling; every word limit in the service is expressed in these units.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
