// Package models defines the core data structures for documents, features,
// and processing requests and responses.
package models

// Feature identifies a processing feature. The set is closed: any value
// outside the seven constants below is a contract violation, never a
// runtime extension point.
type Feature string

const (
	FeatureSummarize         Feature = "summarize"
	FeatureGrammarCorrect    Feature = "grammar_correct"
	FeatureTranslate         Feature = "translate"
	FeatureExplain           Feature = "explain"
	FeatureConvert           Feature = "convert"
	FeatureGenerateQuestions Feature = "generate_questions"
	FeatureGenerateAnswers   Feature = "generate_answers"
)

// Features lists every supported feature in declaration order.
var Features = []Feature{
	FeatureSummarize,
	FeatureGrammarCorrect,
	FeatureTranslate,
	FeatureExplain,
	FeatureConvert,
	FeatureGenerateQuestions,
	FeatureGenerateAnswers,
}

// Valid reports whether f is one of the seven supported features.
func (f Feature) Valid() bool {
	switch f {
	case FeatureSummarize, FeatureGrammarCorrect, FeatureTranslate,
		FeatureExplain, FeatureConvert, FeatureGenerateQuestions,
		FeatureGenerateAnswers:
		return true
	}
	return false
}

// NumberedOutput reports whether the feature's generation output must be a
// sequentially numbered list rather than a single content block.
func (f Feature) NumberedOutput() bool {
	return f == FeatureGenerateQuestions || f == FeatureGenerateAnswers
}

// Tier labels a user's subscription tier. Only the free tier carries a
// daily action quota; any other label passes the governor unchanged.
type Tier string

// TierFree is the only tier currently defined.
const TierFree Tier = "free"
