package services

import (
	"context"

	"github.com/xingmeng/stardream/pkg/chat"
)

// StreamChunk is one increment of a streaming chat response. Content
// chunks arrive in order; the final chunk has Done set, or Err on
// transport failure.
type StreamChunk struct {
	Content string
	Done    bool
	Err     error
}

// LLMService defines the interface for the chat model transport.
type LLMService interface {
	// Chat generates a complete response in one call.
	Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)

	// ChatStream generates a response incrementally. The returned
	// channel is closed after the Done or Err chunk.
	ChatStream(ctx context.Context, messages []chat.ChatMessage) (<-chan StreamChunk, error)
}
