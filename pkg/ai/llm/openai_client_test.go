package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoigdm/api/pkg/logger"
)

type capturedRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
}

func newTestServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClient_Chat(t *testing.T) {
	var got capturedRequest
	srv := newTestServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hey there! Love your workouts."}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 30, "completion_tokens": 8, "total_tokens": 38}
	}`, &got)

	client := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, logger.Nop())

	resp, err := client.Chat(context.Background(), ChatRequest{
		Messages:  Messages("be friendly", "write a DM"),
		MaxTokens: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "Hey there! Love your workouts.", resp.Message)
	assert.Equal(t, 38, resp.TokensUsed)
	assert.Equal(t, "stop", resp.FinishReason)

	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, 100, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 0.001)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "write a DM", got.Messages[1].Content)
}

func TestOpenAIClient_Complete(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"choices": [{"message": {"role": "assistant", "content": "Hi!"}}]}`, nil)
	client := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, logger.Nop())

	out, err := client.Complete(context.Background(), "write a DM", "be friendly")
	require.NoError(t, err)
	assert.Equal(t, "Hi!", out)
}

func TestOpenAIClient_Errors(t *testing.T) {
	t.Run("Error - upstream failure is a service error", func(t *testing.T) {
		srv := newTestServer(t, http.StatusInternalServerError, `{"error": {"message": "overloaded", "type": "server_error"}}`, nil)
		client := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, logger.Nop())

		_, err := client.Chat(context.Background(), ChatRequest{Messages: Messages("", "hi")})
		assert.ErrorIs(t, err, ErrService)
	})

	t.Run("Error - empty choices is a service error", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{"choices": []}`, nil)
		client := NewOpenAIClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"}, logger.Nop())

		_, err := client.Chat(context.Background(), ChatRequest{Messages: Messages("", "hi")})
		assert.ErrorIs(t, err, ErrService)
	})
}

func TestMessages(t *testing.T) {
	assert.Len(t, Messages("", "only user"), 1)
	msgs := Messages("sys", "user")
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[1].Role)
}
