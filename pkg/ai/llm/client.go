package llm

import (
	"context"
	"errors"
)

// ErrService marks every failure of the text-generation service
var ErrService = errors.New("llm: generation service error")

// LLMClient is the interface for chat-completion backends
type LLMClient interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Complete(ctx context.Context, prompt string, systemPrompt ...string) (string, error)
}

// Ensure implementations satisfy the interface
var _ LLMClient = (*OpenAIClient)(nil)

// ChatMessage represents a chat message
type ChatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatRequest represents a chat completion request
type ChatRequest struct {
	Messages    []ChatMessage `json:"messages"`
	Temperature float32       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatResponse represents a chat completion response
type ChatResponse struct {
	Message      string `json:"message"`
	TokensUsed   int    `json:"tokens_used"`
	FinishReason string `json:"finish_reason"`
}

// Messages builds the usual system + user message pair
func Messages(systemPrompt, prompt string) []ChatMessage {
	messages := make([]ChatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	}
	return append(messages, ChatMessage{Role: "user", Content: prompt})
}
