// Package llm is the language-model collaborator: one chat completion per
// question, no retries.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"matte/internal/common/config"
	"matte/internal/common/logger"
	"matte/internal/matte/prompt"
)

var (
	ErrNotConfigured    = errors.New("LLM_UNAVAILABLE")
	ErrTimeout          = errors.New("LLM_TIMEOUT")
	ErrCompletionFailed = errors.New("LLM_COMPLETION_FAILED")
)

type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      logger.Logger
}

// New builds a client that sends requests through doer. Without an API key
// the client is returned anyway and every call fails with ErrNotConfigured.
func New(cfg config.OpenAIConfig, doer openai.HTTPDoer, log logger.Logger) *Client {
	c := &Client{
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     config.GetDuration(cfg.Timeout),
		logger:      log.With(map[string]interface{}{"component": "llm"}),
	}
	if !cfg.Enabled() {
		return c
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if doer != nil {
		oc.HTTPClient = doer
	}
	c.client = openai.NewClientWithConfig(oc)
	return c
}

func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Complete sends the pair as a system and a user message and returns the
// trimmed reply.
func (c *Client) Complete(ctx context.Context, pair prompt.Pair) (string, error) {
	if !c.Enabled() {
		return "", ErrNotConfigured
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: pair.System},
			{Role: openai.ChatMessageRoleUser, Content: pair.User},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return "", ErrTimeout
		}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: status %d: %s", ErrCompletionFailed, apiErr.HTTPStatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrCompletionFailed)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", ErrCompletionFailed)
	}

	c.logger.Debug("completion received", map[string]interface{}{
		"model":            c.model,
		"promptTokens":     resp.Usage.PromptTokens,
		"completionTokens": resp.Usage.CompletionTokens,
		"latencyMs":        time.Since(start).Milliseconds(),
	})

	return text, nil
}
