package prompt

import (
	"strings"
	"testing"

	"github.com/hyperjump/bunseki/internal/fault"
	"github.com/hyperjump/bunseki/internal/models"
)

func intp(v int) *int { return &v }

func TestBuild_unsupportedFeature(t *testing.T) {
	for _, f := range []models.Feature{"", "rewrite", "SUMMARIZE"} {
		_, err := Build(models.PromptContext{Feature: f, Text: "some text"})
		if fault.CodeOf(err) != fault.CodeUnsupportedFeature {
			t.Errorf("feature %q: code = %s", f, fault.CodeOf(err))
		}
	}
}

func TestBuild_emptyContent(t *testing.T) {
	_, err := Build(models.PromptContext{Feature: models.FeatureSummarize, Text: "   \n "})
	if fault.CodeOf(err) != fault.CodeEmptyContent {
		t.Errorf("code = %s", fault.CodeOf(err))
	}
}

// The assembled prompt must contain, verbatim and in order: the policy
// preamble, the feature rule block, and the document text.
func TestBuild_assemblyOrder(t *testing.T) {
	for _, f := range models.Features {
		ctx := models.PromptContext{
			Feature:        f,
			Text:           "The quick brown fox jumps over the lazy dog.",
			WordCount:      intp(9),
			Questions:      []string{"1. What jumps?"},
			TargetLanguage: "French",
		}
		got, err := Build(ctx)
		if err != nil {
			t.Fatalf("Build(%s): %v", f, err)
		}
		iPolicy := strings.Index(got, basePolicy)
		iRules := strings.Index(got, featureRules[f])
		iMarker := strings.Index(got, "DOCUMENT CONTENT:")
		iText := strings.Index(got, ctx.Text)
		if iPolicy != 0 {
			t.Errorf("%s: policy preamble not at start (index %d)", f, iPolicy)
		}
		if iRules < iPolicy || iMarker < iRules || iText < iMarker {
			t.Errorf("%s: blocks out of order: policy=%d rules=%d marker=%d text=%d",
				f, iPolicy, iRules, iMarker, iText)
		}
		if got != strings.TrimSpace(got) {
			t.Errorf("%s: output not trimmed", f)
		}
	}
}

func TestBuild_generateQuestions(t *testing.T) {
	_, err := Build(models.PromptContext{
		Feature: models.FeatureGenerateQuestions,
		Text:    "doc body",
	})
	if fault.CodeOf(err) != fault.CodeWordCountRequired {
		t.Fatalf("missing word count: code = %s", fault.CodeOf(err))
	}

	got, err := Build(models.PromptContext{
		Feature:   models.FeatureGenerateQuestions,
		Text:      "doc body",
		WordCount: intp(200),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(got, "Document classification: small") {
		t.Error("missing small classification directive")
	}
	if !strings.Contains(got, "Generate between 4 and 6 questions") {
		t.Error("missing 4-6 question range directive")
	}
}

func TestBuild_generateQuestionsPerBand(t *testing.T) {
	tests := []struct {
		words int
		want  string
	}{
		{300, "Generate between 4 and 6 questions"},
		{301, "Generate between 8 and 10 questions"},
		{1000, "Generate between 12 and 15 questions"},
	}
	for _, tt := range tests {
		got, err := Build(models.PromptContext{
			Feature:   models.FeatureGenerateQuestions,
			Text:      "doc body",
			WordCount: intp(tt.words),
		})
		if err != nil {
			t.Fatalf("Build(words=%d): %v", tt.words, err)
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("words=%d: missing directive %q", tt.words, tt.want)
		}
	}
}

func TestBuild_generateAnswers(t *testing.T) {
	_, err := Build(models.PromptContext{
		Feature: models.FeatureGenerateAnswers,
		Text:    "doc body",
	})
	if fault.CodeOf(err) != fault.CodeQuestionsRequired {
		t.Fatalf("missing questions: code = %s", fault.CodeOf(err))
	}

	questions := []string{"1. What?", "2. Why?"}
	got, err := Build(models.PromptContext{
		Feature:   models.FeatureGenerateAnswers,
		Text:      "doc body",
		Questions: questions,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	joined := "1. What?\n2. Why?"
	if !strings.Contains(got, joined) {
		t.Errorf("questions not echoed verbatim in order:\n%s", got)
	}
	if !strings.Contains(got, "Preserve numbering exactly as provided") {
		t.Error("missing numbering directive")
	}
}

func TestBuild_translate(t *testing.T) {
	_, err := Build(models.PromptContext{
		Feature: models.FeatureTranslate,
		Text:    "doc body",
	})
	if fault.CodeOf(err) != fault.CodeTargetLanguageRequired {
		t.Fatalf("missing target language: code = %s", fault.CodeOf(err))
	}

	got, err := Build(models.PromptContext{
		Feature:        models.FeatureTranslate,
		Text:           "doc body",
		TargetLanguage: "Japanese",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(got, "TARGET LANGUAGE:\nJapanese") {
		t.Error("target language not injected verbatim")
	}
}

// Features without extra parameters must build with nothing but text.
func TestBuild_plainFeatures(t *testing.T) {
	for _, f := range []models.Feature{
		models.FeatureSummarize,
		models.FeatureGrammarCorrect,
		models.FeatureExplain,
		models.FeatureConvert,
	} {
		got, err := Build(models.PromptContext{Feature: f, Text: "doc body"})
		if err != nil {
			t.Errorf("Build(%s): %v", f, err)
			continue
		}
		if strings.Contains(got, "DETERMINISTIC SCALING RULE") ||
			strings.Contains(got, "QUESTIONS TO ANSWER") ||
			strings.Contains(got, "TARGET LANGUAGE") {
			t.Errorf("%s: unexpected extra constraint block", f)
		}
	}
}
