// Package openrouter implements llm.Completer against OpenRouter's
// OpenAI-compatible chat completions API.
package openrouter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/vbonduro/foodiq/internal/llm"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "google/gemini-2.0-flash-001"
)

type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	// Referer and Title identify the calling application to OpenRouter
	// (sent as HTTP-Referer and X-Title).
	Referer string
	Title   string
	Timeout time.Duration
}

type Client struct {
	api   *openai.Client
	model string
}

func New(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = DefaultBaseURL
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = &http.Client{
		Timeout: opts.Timeout,
		Transport: &identifyTransport{
			base:    http.DefaultTransport,
			referer: opts.Referer,
			title:   opts.Title,
		},
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.send(ctx, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})
}

func (c *Client) CompleteWithImage(ctx context.Context, prompt, imageDataURL string) (string, error) {
	return c.send(ctx, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: prompt},
			{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageDataURL}},
		},
	})
}

func (c *Client) send(ctx context.Context, msg openai.ChatCompletionMessage) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: []openai.ChatCompletionMessage{msg},
	})
	if err != nil {
		return "", &llm.UpstreamError{StatusCode: statusCode(err), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// statusCode digs the provider's HTTP status out of a go-openai error.
func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// identifyTransport adds OpenRouter's caller identification headers.
type identifyTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *identifyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(req)
}
