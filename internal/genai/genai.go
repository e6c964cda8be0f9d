// Package genai wraps the OpenAI client behind a small completion interface
// so the dialogue engine can be tested without network access.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrNoAPIKey is returned by NewClient when no API key is configured.
var ErrNoAPIKey = errors.New("genai: OPENAI_API_KEY not set")

// CompletionRequest is a single-turn chat completion request.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// Completion is the model's answer plus usage accounting.
type Completion struct {
	Text       string
	TokensUsed int64
}

// ClientInterface abstracts the completion backend.
type ClientInterface interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// Client calls the OpenAI chat completions API.
type Client struct {
	client openai.Client
	model  string
}

// Option configures a Client.
type Option func(*clientOpts)

type clientOpts struct {
	apiKey string
	model  string
}

// WithAPIKey overrides the OPENAI_API_KEY environment variable.
func WithAPIKey(key string) Option {
	return func(o *clientOpts) { o.apiKey = key }
}

// WithModel overrides the default chat model.
func WithModel(model string) Option {
	return func(o *clientOpts) { o.model = model }
}

// NewClient creates an OpenAI-backed client. The API key is read from
// OPENAI_API_KEY unless overridden.
func NewClient(opts ...Option) (*Client, error) {
	co := clientOpts{
		apiKey: os.Getenv("OPENAI_API_KEY"),
		model:  openai.ChatModelGPT4oMini,
	}
	for _, opt := range opts {
		opt(&co)
	}
	if co.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	slog.Debug("genai.NewClient: initialized", "model", co.model)
	return &Client{
		client: openai.NewClient(option.WithAPIKey(co.apiKey)),
		model:  co.model,
	}, nil
}

// Complete performs a single chat completion and returns the first choice.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		slog.Error("Client.Complete: completion request failed", "error", err)
		return nil, fmt.Errorf("failed to generate completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("genai: completion returned no choices")
	}
	return &Completion{
		Text:       resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}
