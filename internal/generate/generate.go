// Package generate calls the text-generation provider. The rest of the
// pipeline sees only the Client interface; provider failures surface as
// generation faults with user-safe messages.
package generate

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperjump/bunseki/internal/fault"
)

// Client produces text for an assembled prompt. Implementations must
// honor context cancellation and deadlines.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// systemMessage frames the model before the prompt contract is applied.
const systemMessage = "You are a strict document processing AI."

// Options configures the OpenAI-backed client.
type Options struct {
	APIKey    string
	BaseURL   string // empty uses the provider default
	Model     string
	MaxTokens int // output cap; keeps responses inside the word contract
}

// OpenAI is a Client backed by an OpenAI-compatible chat-completions API.
type OpenAI struct {
	api       *openai.Client
	model     string
	maxTokens int
}

// NewOpenAI returns a provider client for the given options.
func NewOpenAI(opts Options) *OpenAI {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &OpenAI{
		api:       openai.NewClientWithConfig(cfg),
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
	}
}

// Generate sends prompt to the provider and returns the model output.
// Temperature is pinned to zero: the prompt contract depends on the
// model not being creative. A blank or absent payload is a provider
// error, never valid output.
func (c *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fault.New(fault.CodeGenerationProviderError,
			"empty prompt passed to generation client")
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fault.New(fault.CodeGenerationProviderError,
			"generation provider returned no output")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", fault.New(fault.CodeGenerationProviderError,
			"generation provider returned empty output")
	}
	return out, nil
}

// classify maps a transport or provider failure to a generation fault.
// Cause text stays in the wrapped error for logs; wire messages are
// generic so provider internals never leak.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fault.Wrap(fault.CodeGenerationTimeout,
			"generation timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return fault.Wrap(fault.CodeGenerationTimeout,
			"generation was cancelled", err)
	}
	return fault.Wrap(fault.CodeGenerationProviderError,
		"generation provider request failed", err)
}
