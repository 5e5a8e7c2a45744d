// Package scale maps document word counts to question-count bands for
// question generation. The band table is fixed policy, not configuration.
package scale

import (
	"github.com/hyperjump/bunseki/internal/fault"
)

// Classification names a document size class.
type Classification string

const (
	Small  Classification = "small"
	Medium Classification = "medium"
	Large  Classification = "large"
)

// Rule is one word-count band and its allowed question-count range.
// Invariants: MaxWords > MinWords and MaxQuestions > MinQuestions.
type Rule struct {
	Classification Classification
	MinWords       int
	MaxWords       int
	MinQuestions   int
	MaxQuestions   int
}

// rules is ordered, non-overlapping, and contiguous over [1,1000], so
// exactly one rule matches any in-range word count.
var rules = []Rule{
	{Classification: Small, MinWords: 1, MaxWords: 300, MinQuestions: 4, MaxQuestions: 6},
	{Classification: Medium, MinWords: 301, MaxWords: 700, MinQuestions: 8, MaxQuestions: 10},
	{Classification: Large, MinWords: 701, MaxWords: 1000, MinQuestions: 12, MaxQuestions: 15},
}

// Rules returns a copy of the band table.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Classify returns the rule whose band contains wordCount. Word counts
// outside [1,1000] are unreachable given upstream validation but are
// still rejected with an out-of-range fault.
func Classify(wordCount int) (Rule, error) {
	for _, r := range rules {
		if wordCount >= r.MinWords && wordCount <= r.MaxWords {
			return r, nil
		}
	}
	return Rule{}, fault.Newf(fault.CodeOutOfRange,
		"word count %d is outside the supported range", wordCount)
}
