// Package claude implements llm.Completer on the Anthropic Messages API.
package claude

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/foodiq/internal/llm"
)

const DefaultModel = "claude-sonnet-4-5"

// maxTokens bounds a reply; the largest expected reply is an analysis JSON
// object of roughly 400 tokens.
const maxTokens = 1024

type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	api   *anthropic.Client
	model string
}

func New(opts Options) *Client {
	clientOpts := []anthropic.ClientOption{
		anthropic.WithHTTPClient(&http.Client{Timeout: opts.Timeout}),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, anthropic.WithBaseURL(opts.BaseURL))
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		api:   anthropic.NewClient(opts.APIKey, clientOpts...),
		model: model,
	}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.send(ctx, anthropic.NewUserTextMessage(prompt))
}

func (c *Client) CompleteWithImage(ctx context.Context, prompt, imageDataURL string) (string, error) {
	mimeType, data, err := llm.ParseImageDataURL(imageDataURL)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	return c.send(ctx, anthropic.Message{
		Role: anthropic.RoleUser,
		Content: []anthropic.MessageContent{
			anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				normaliseMIME(mimeType),
				data,
			)),
			anthropic.NewTextMessageContent(prompt),
		},
	})
}

func (c *Client) send(ctx context.Context, msg anthropic.Message) (string, error) {
	resp, err := c.api.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		Messages:  []anthropic.Message{msg},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", &llm.UpstreamError{StatusCode: statusCode(err), Err: err}
	}

	for _, content := range resp.Content {
		if content.Type == anthropic.MessagesContentTypeText {
			return content.GetText(), nil
		}
	}
	return "", nil
}

func statusCode(err error) int {
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// normaliseMIME maps browser MIME types to the values the Anthropic API
// accepts: jpeg, png, gif and webp. Anything else is sent as jpeg.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
