// Package prompt assembles the contract-enforced instruction sent to the
// generation provider: a fixed policy preamble, one feature rule block,
// feature-specific extra constraints, and the document text, in that order.
package prompt

import (
	"fmt"
	"strings"

	"github.com/hyperjump/bunseki/internal/fault"
	"github.com/hyperjump/bunseki/internal/models"
	"github.com/hyperjump/bunseki/internal/scale"
)

// Build assembles the prompt for ctx. It fails when the feature is not
// one of the seven supported features, when the text is blank, or when a
// feature-required parameter is missing. The output is the assembled
// blocks joined in fixed order and trimmed; no other normalization.
func Build(ctx models.PromptContext) (string, error) {
	rules, ok := featureRules[ctx.Feature]
	if !ok {
		return "", fault.Newf(fault.CodeUnsupportedFeature,
			"unsupported feature %q", string(ctx.Feature))
	}
	if strings.TrimSpace(ctx.Text) == "" {
		return "", fault.New(fault.CodeEmptyContent, "empty content cannot be processed")
	}

	extra, err := extraConstraints(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(basePolicy)
	b.WriteString("\n\n")
	b.WriteString(rules)
	if extra != "" {
		b.WriteString("\n\n")
		b.WriteString(extra)
	}
	b.WriteString("\n\nDOCUMENT CONTENT:\n")
	b.WriteString(ctx.Text)
	return strings.TrimSpace(b.String()), nil
}

// extraConstraints returns the feature-specific constraint block, or ""
// for features that need none. Each missing parameter is a distinct
// failure, not a generic validation error.
func extraConstraints(ctx models.PromptContext) (string, error) {
	switch ctx.Feature {
	case models.FeatureGenerateQuestions:
		if ctx.WordCount == nil {
			return "", fault.New(fault.CodeWordCountRequired,
				"word count required for question generation")
		}
		rule, err := scale.Classify(*ctx.WordCount)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(`DETERMINISTIC SCALING RULE:
- Document classification: %s
- Generate between %d and %d questions
- Strictly respect this range`,
			rule.Classification, rule.MinQuestions, rule.MaxQuestions), nil

	case models.FeatureGenerateAnswers:
		if len(ctx.Questions) == 0 {
			return "", fault.New(fault.CodeQuestionsRequired,
				"questions required for answer generation")
		}
		return fmt.Sprintf(`QUESTIONS TO ANSWER:
%s
RULE:
- Preserve numbering exactly as provided`,
			strings.Join(ctx.Questions, "\n")), nil

	case models.FeatureTranslate:
		if strings.TrimSpace(ctx.TargetLanguage) == "" {
			return "", fault.New(fault.CodeTargetLanguageRequired,
				"target language required for translation")
		}
		return fmt.Sprintf("TARGET LANGUAGE:\n%s", ctx.TargetLanguage), nil
	}
	return "", nil
}
