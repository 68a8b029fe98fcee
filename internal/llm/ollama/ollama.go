// Package ollama implements llm.Completer against a local Ollama server's
// /api/generate endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vbonduro/foodiq/internal/llm"
)

const (
	DefaultHost  = "http://localhost:11434"
	DefaultModel = "llama3.2-vision"
)

type Options struct {
	Host    string
	Model   string
	Timeout time.Duration
}

type Client struct {
	host   string
	model  string
	client *http.Client
}

func New(opts Options) *Client {
	host := opts.Host
	if host == "" {
		host = DefaultHost
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		host:   host,
		model:  model,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images,omitempty"`
	Stream bool     `json:"stream"`
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, generateRequest{Model: c.model, Prompt: prompt})
}

// CompleteWithImage sends the decoded image; Ollama takes raw base64 without
// the data URL prefix.
func (c *Client) CompleteWithImage(ctx context.Context, prompt, imageDataURL string) (string, error) {
	_, data, err := llm.ParseImageDataURL(imageDataURL)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return c.generate(ctx, generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Images: []string{base64.StdEncoding.EncodeToString(data)},
	})
}

func (c *Client) generate(ctx context.Context, body generateRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &llm.UpstreamError{Err: fmt.Errorf("failed to call ollama: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &llm.UpstreamError{StatusCode: resp.StatusCode, Err: fmt.Errorf("ollama: %s", bytes.TrimSpace(msg))}
	}

	var respBody struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return "", &llm.UpstreamError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return respBody.Response, nil
}
