package services

import (
	"context"
	"sync"

	"github.com/xingmeng/stardream/pkg/chat"
)

// MockLLMService is a mock implementation of LLMService for testing
type MockLLMService struct {
	ChatFunc       func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)
	ChatStreamFunc func(ctx context.Context, messages []chat.ChatMessage) (<-chan StreamChunk, error)

	// Track calls for testing
	ChatCalls       []ChatCall
	ChatStreamCalls []ChatCall

	mu sync.Mutex // protects all fields above
}

type ChatCall struct {
	Messages []chat.ChatMessage
}

// NewMockLLMService creates a new mock LLM service
func NewMockLLMService() *MockLLMService {
	return &MockLLMService{
		ChatCalls:       make([]ChatCall, 0),
		ChatStreamCalls: make([]ChatCall, 0),
	}
}

// Chat mocks a non-streaming chat completion
func (m *MockLLMService) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, ChatCall{Messages: messages})
	fn := m.ChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	return &chat.ChatResponse{Message: "Mock response"}, nil
}

// ChatStream mocks a streaming chat completion
func (m *MockLLMService) ChatStream(ctx context.Context, messages []chat.ChatMessage) (<-chan StreamChunk, error) {
	m.mu.Lock()
	m.ChatStreamCalls = append(m.ChatStreamCalls, ChatCall{Messages: messages})
	fn := m.ChatStreamFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	return ScriptedStream("Mock response"), nil
}

// SetChatStreamResponse sets up the mock to stream a fixed reply
func (m *MockLLMService) SetChatStreamResponse(content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatStreamFunc = func(ctx context.Context, messages []chat.ChatMessage) (<-chan StreamChunk, error) {
		return ScriptedStream(content), nil
	}
}

// SetChatStreamError sets up the mock to fail the streaming call
func (m *MockLLMService) SetChatStreamError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatStreamFunc = func(ctx context.Context, messages []chat.ChatMessage) (<-chan StreamChunk, error) {
		return nil, err
	}
}

// Reset clears all call tracking
func (m *MockLLMService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCalls = make([]ChatCall, 0)
	m.ChatStreamCalls = make([]ChatCall, 0)
}

// GetCalls returns a copy of the call tracking data in a thread-safe way
func (m *MockLLMService) GetCalls() ([]ChatCall, []ChatCall) {
	m.mu.Lock()
	defer m.mu.Unlock()

	chatCalls := make([]ChatCall, len(m.ChatCalls))
	copy(chatCalls, m.ChatCalls)
	streamCalls := make([]ChatCall, len(m.ChatStreamCalls))
	copy(streamCalls, m.ChatStreamCalls)
	return chatCalls, streamCalls
}

// ScriptedStream returns a channel that replays content in small
// chunks followed by a Done marker, mimicking a live stream.
func ScriptedStream(content string) <-chan StreamChunk {
	out := make(chan StreamChunk)
	go func() {
		defer close(out)
		runes := []rune(content)
		const step = 8
		for i := 0; i < len(runes); i += step {
			end := i + step
			if end > len(runes) {
				end = len(runes)
			}
			out <- StreamChunk{Content: string(runes[i:end])}
		}
		out <- StreamChunk{Done: true}
	}()
	return out
}

// ErrorStream returns a channel that delivers some content and then a
// mid-stream transport error.
func ErrorStream(content string, err error) <-chan StreamChunk {
	out := make(chan StreamChunk)
	go func() {
		defer close(out)
		if content != "" {
			out <- StreamChunk{Content: content}
		}
		out <- StreamChunk{Err: err}
	}()
	return out
}
