// Package llm implements the text-generation collaborator on top of the
// OpenAI chat completions API.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Conservative defaults: summarization is not latency-sensitive, and the
// SDK's own backoff handles transient failures, so the core never implements
// a retry loop of its own.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
)

// Options configures the client.
type Options struct {
	APIKey     string
	BaseURL    string // optional, for OpenAI-compatible endpoints
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Client calls the chat completions endpoint with bounded timeout and
// retries.
type Client struct {
	client openai.Client
	model  string
}

// New creates a client. Model is required; zero Timeout/MaxRetries select
// the defaults.
func New(opts Options) (*Client, error) {
	if opts.Model == "" {
		return nil, fmt.Errorf("llm: model required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}

	reqOpts := []option.RequestOption{
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(retries),
	}
	if opts.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &Client{
		client: openai.NewClient(reqOpts...),
		model:  opts.Model,
	}, nil
}

// Generate sends one system+user exchange and returns the completion text.
func (c *Client) Generate(ctx context.Context, systemRole, prompt string, maxTokens int, temperature float64) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemRole),
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("llm: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
