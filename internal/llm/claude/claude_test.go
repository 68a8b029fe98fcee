package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/foodiq/internal/llm"
)

type messagesRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type   string `json:"type"`
			Text   string `json:"text"`
			Source *struct {
				Type      string `json:"type"`
				MediaType string `json:"media_type"`
				Data      string `json:"data"`
			} `json:"source"`
		} `json:"content"`
	} `json:"messages"`
}

func messagesServer(t *testing.T, text string, got *messagesRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("x-api-key") != "sk-ant-test" {
			http.Error(w, `{"type":"error","error":{"type":"authentication_error","message":"bad key"}}`, http.StatusUnauthorized)
			return
		}
		if got != nil {
			_ = json.NewDecoder(r.Body).Decode(got)
		}
		resp := map[string]interface{}{
			"id":          "msg_1",
			"type":        "message",
			"role":        "assistant",
			"model":       DefaultModel,
			"stop_reason": "end_turn",
			"content": []map[string]interface{}{
				{"type": "text", "text": text},
			},
			"usage": map[string]interface{}{"input_tokens": 10, "output_tokens": 5},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestComplete(t *testing.T) {
	var req messagesRequest
	server := messagesServer(t, `{"followUpAnswer":"Occasionally is fine."}`, &req)

	client := New(Options{APIKey: "sk-ant-test", BaseURL: server.URL})

	text, err := client.Complete(context.Background(), "is it ok?")
	require.NoError(t, err)
	assert.Equal(t, `{"followUpAnswer":"Occasionally is fine."}`, text)

	assert.Equal(t, DefaultModel, req.Model)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
	require.Len(t, req.Messages[0].Content, 1)
	assert.Equal(t, "is it ok?", req.Messages[0].Content[0].Text)
}

func TestCompleteWithImage(t *testing.T) {
	var req messagesRequest
	server := messagesServer(t, "Oats, sugar", &req)

	client := New(Options{APIKey: "sk-ant-test", BaseURL: server.URL, Model: "claude-haiku-4-5"})

	text, err := client.CompleteWithImage(context.Background(), "extract", "data:image/heic;base64,/9j/4A==")
	require.NoError(t, err)
	assert.Equal(t, "Oats, sugar", text)

	assert.Equal(t, "claude-haiku-4-5", req.Model)
	require.Len(t, req.Messages, 1)
	content := req.Messages[0].Content
	require.Len(t, content, 2)
	assert.Equal(t, "image", content[0].Type)
	require.NotNil(t, content[0].Source)
	assert.Equal(t, "base64", content[0].Source.Type)
	assert.Equal(t, "image/jpeg", content[0].Source.MediaType)
	assert.Equal(t, "/9j/4A==", content[0].Source.Data)
	assert.Equal(t, "text", content[1].Type)
	assert.Equal(t, "extract", content[1].Text)
}

func TestCompleteWithImageRejectsNonDataURL(t *testing.T) {
	client := New(Options{APIKey: "sk-ant-test"})

	_, err := client.CompleteWithImage(context.Background(), "extract", "https://example.com/a.jpg")
	assert.ErrorIs(t, err, llm.ErrNotDataURL)
}

func TestCompleteAPIError(t *testing.T) {
	server := messagesServer(t, "", nil)

	client := New(Options{APIKey: "wrong", BaseURL: server.URL})

	_, err := client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, llm.IsUpstream(err))
}

func TestNormaliseMIME(t *testing.T) {
	assert.Equal(t, "image/png", normaliseMIME("image/png"))
	assert.Equal(t, "image/webp", normaliseMIME("image/webp"))
	assert.Equal(t, "image/jpeg", normaliseMIME("image/jpeg"))
	assert.Equal(t, "image/jpeg", normaliseMIME("image/heic"))
}
