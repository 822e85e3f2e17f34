// Package openai provides a completion backend using the OpenAI chat API.
package openai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"medical-conversation-processor/internal/service/llm"
)

// Config holds OpenAI backend configuration.
type Config struct {
	BaseURL string // empty means the public OpenAI endpoint
	APIKey  string
}

// Client implements llm.Completer using chat completions.
type Client struct {
	client *openai.Client
}

// New creates an OpenAI-backed completion client.
func New(cfg Config) *Client {
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	return &Client{client: openai.NewClientWithConfig(cc)}
}

// Name returns the backend identifier.
func (c *Client) Name() string { return "openai" }

// Complete sends the prompt as a single user message and returns the
// assistant's reply. TopK is not supported by the chat API and is ignored.
func (c *Client) Complete(ctx context.Context, model, prompt string, opts llm.Options) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(opts.Temperature),
		TopP:        float32(opts.TopP),
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
