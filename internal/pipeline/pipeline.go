// Package pipeline sequences a processing request through throttling,
// validation, extraction, quota, prompt assembly, generation, and
// response-shape validation. Any stage failure short-circuits with a
// structured fault; no stage is retried.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/bunseki/internal/extract"
	"github.com/hyperjump/bunseki/internal/fault"
	"github.com/hyperjump/bunseki/internal/generate"
	"github.com/hyperjump/bunseki/internal/models"
	"github.com/hyperjump/bunseki/internal/prompt"
	"github.com/hyperjump/bunseki/internal/quota"
	"github.com/hyperjump/bunseki/internal/sanitize"
	"github.com/hyperjump/bunseki/internal/throttle"
	"github.com/hyperjump/bunseki/pkg/utils"
)

// DefaultGenerateTimeout bounds the provider call independently of any
// provider-side timeout. Expiry surfaces as a generation timeout fault,
// never a retry.
const DefaultGenerateTimeout = 12 * time.Second

// UsageSource supplies and records per-client daily action counts.
type UsageSource interface {
	ActionsToday(ctx context.Context, clientKey string) (int, error)
	Record(ctx context.Context, clientKey string) error
}

// LanguageDetector identifies a document's language. Optional.
type LanguageDetector interface {
	Language(text string) string
}

// FileUpload is an uploaded document: declared filename plus raw bytes.
type FileUpload struct {
	Filename string
	Content  []byte
}

// Request is one processing request. Exactly one of Text and File must
// be set; Text is a pointer so an absent field is distinguishable from
// an empty paste.
type Request struct {
	ClientKey      string
	Tier           models.Tier
	Feature        models.Feature
	Text           *string
	File           *FileUpload
	Questions      []string
	TargetLanguage string
}

// Result is a delivered processing result.
type Result struct {
	RequestID        string                     `json:"request_id"`
	Feature          models.Feature             `json:"feature"`
	Output           *models.StructuredResponse `json:"output"`
	WordCount        int                        `json:"word_count"`
	Document         *models.ExtractedDocument  `json:"document,omitempty"`
	DetectedLanguage string                     `json:"detected_language,omitempty"`
}

// Pipeline owns the stage collaborators. Construct once; Process is safe
// for concurrent use, requests share only the throttle's window store.
type Pipeline struct {
	limiter   *throttle.Limiter
	extractor *extract.Extractor
	usage     UsageSource
	generator generate.Client
	detector  LanguageDetector
	logger    *zap.Logger
	timeout   time.Duration
}

// New assembles a pipeline. detector may be nil to disable language
// enrichment; timeout <= 0 uses DefaultGenerateTimeout.
func New(
	limiter *throttle.Limiter,
	extractor *extract.Extractor,
	usage UsageSource,
	generator generate.Client,
	detector LanguageDetector,
	logger *zap.Logger,
	timeout time.Duration,
) *Pipeline {
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	return &Pipeline{
		limiter:   limiter,
		extractor: extractor,
		usage:     usage,
		generator: generator,
		detector:  detector,
		logger:    logger,
		timeout:   timeout,
	}
}

// Process runs req through every stage and returns the delivered result
// or the first stage failure.
func (p *Pipeline) Process(ctx context.Context, req Request) (*Result, error) {
	requestID := uuid.NewString()
	log := p.logger.With(
		zap.String("request_id", requestID),
		zap.String("feature", string(req.Feature)),
	)

	if err := p.limiter.Admit(req.ClientKey, req.Feature); err != nil {
		log.Debug("request throttled", zap.Int("retry_after", fault.RetryAfterOf(err)))
		return nil, err
	}

	text, doc, err := p.resolveInput(ctx, req, log)
	if err != nil {
		return nil, err
	}
	wordCount := utils.WordCount(text)
	if doc != nil {
		wordCount = doc.WordCount
	}

	actions, err := p.usage.ActionsToday(ctx, req.ClientKey)
	if err != nil {
		log.Error("usage lookup failed", zap.Error(err))
		return nil, fault.Wrap(fault.CodeInternal, "unexpected processing error", err)
	}
	if err := quota.Check(models.UsageSnapshot{Tier: req.Tier, ActionsUsedToday: actions}); err != nil {
		return nil, err
	}

	assembled, err := prompt.Build(models.PromptContext{
		Feature:        req.Feature,
		Text:           text,
		WordCount:      &wordCount,
		Questions:      req.Questions,
		TargetLanguage: req.TargetLanguage,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("prompt built",
		zap.Int("word_count", wordCount),
		zap.Int("prompt_chars", len(assembled)),
		zap.String("prompt_preview", utils.Truncate(assembled, 120)),
	)

	genCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	raw, err := p.generator.Generate(genCtx, assembled)
	if err != nil {
		log.Warn("generation failed", zap.String("code", string(fault.CodeOf(err))), zap.Error(err))
		return nil, err
	}

	output, err := shapeOutput(req.Feature, raw)
	if err != nil {
		log.Warn("generation output failed shape validation", zap.Error(err))
		return nil, err
	}

	// Quota counts delivered actions only; a recording failure is logged
	// but never turns a delivered result into an error.
	if err := p.usage.Record(ctx, req.ClientKey); err != nil {
		log.Warn("usage record failed", zap.Error(err))
	}

	result := &Result{
		RequestID: requestID,
		Feature:   req.Feature,
		Output:    output,
		WordCount: wordCount,
		Document:  doc,
	}
	if req.Feature == models.FeatureTranslate && p.detector != nil {
		result.DetectedLanguage = p.detector.Language(text)
	}
	log.Info("request delivered",
		zap.Int("word_count", wordCount),
		zap.Bool("file_input", doc != nil),
	)
	return result, nil
}

// resolveInput enforces the one-input rule and produces sanitized text.
// Pasted text is sanitized directly; file uploads are extracted first
// and the extracted text then passes the same sanitizer.
func (p *Pipeline) resolveInput(ctx context.Context, req Request, log *zap.Logger) (string, *models.ExtractedDocument, error) {
	switch {
	case req.Text != nil && req.File != nil:
		return "", nil, fault.New(fault.CodeInvalidInput,
			"provide either text input or a file upload, not both")
	case req.Text == nil && req.File == nil:
		return "", nil, fault.New(fault.CodeNullInput, "no input provided")
	case req.Text != nil:
		text, err := sanitize.Text(req.Text)
		if err != nil {
			return "", nil, err
		}
		return text, nil, nil
	}

	doc, err := p.extractor.Extract(ctx, req.File.Content, req.File.Filename)
	if err != nil {
		return "", nil, err
	}
	log.Debug("document extracted",
		zap.String("format", string(doc.Format)),
		zap.Int("word_count", doc.WordCount),
		zap.Bool("ocr_used", doc.OCRUsed),
	)
	text, err := sanitize.Text(&doc.Text)
	if err != nil {
		return "", nil, err
	}
	return text, doc, nil
}
