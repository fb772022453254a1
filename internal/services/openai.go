package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/xingmeng/stardream/pkg/chat"
)

const (
	DefaultTemperature = 0.8
	DefaultMaxTokens   = 1024

	// SSE lines can carry a whole reply in one event.
	sseBufferSize = 1 << 20
)

// OpenAIService implements LLMService against any OpenAI-compatible
// chat completions endpoint.
type OpenAIService struct {
	baseURL    string
	apiKey     string
	modelName  string
	httpClient *http.Client
	logger     *slog.Logger
}

type openAIChatRequest struct {
	Model       string             `json:"model"`
	Messages    []chat.ChatMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
	Stream      bool               `json:"stream"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func NewOpenAIService(baseURL, apiKey, modelName string, logger *slog.Logger) *OpenAIService {
	return &OpenAIService{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

func (s *OpenAIService) newRequest(ctx context.Context, messages []chat.ChatMessage, stream bool) (*http.Request, error) {
	body, err := json.Marshal(openAIChatRequest{
		Model:       s.modelName,
		Messages:    messages,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Stream:      stream,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	return req, nil
}

// Chat generates a complete chat response (non-streaming).
func (s *OpenAIService) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	req, err := s.newRequest(ctx, messages, false)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Making chat request",
		"model", s.modelName,
		"message_count", len(messages))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status: %d", resp.StatusCode)
	}

	var chatResp openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("API returned no choices")
	}

	return &chat.ChatResponse{Message: chatResp.Choices[0].Message.Content}, nil
}

// ChatStream generates a streaming chat response over SSE.
func (s *OpenAIService) ChatStream(ctx context.Context, messages []chat.ChatMessage) (<-chan StreamChunk, error) {
	req, err := s.newRequest(ctx, messages, true)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	s.logger.Debug("Making streaming chat request",
		"model", s.modelName,
		"message_count", len(messages))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("API request failed with status: %d", resp.StatusCode)
	}

	out := make(chan StreamChunk)
	go func() {
		defer close(out)
		defer func() { _ = resp.Body.Close() }()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 64*1024), sseBufferSize)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				out <- StreamChunk{Done: true}
				return
			}

			var chunk openAIChatResponse
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				s.logger.Debug("Skipping unparseable stream event", "error", err)
				continue
			}
			if chunk.Error != nil {
				out <- StreamChunk{Err: fmt.Errorf("API error: %s", chunk.Error.Message)}
				return
			}
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				select {
				case out <- StreamChunk{Content: chunk.Choices[0].Delta.Content}:
				case <-ctx.Done():
					out <- StreamChunk{Err: ctx.Err()}
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			out <- StreamChunk{Err: fmt.Errorf("stream read failed: %w", err)}
			return
		}
		// Stream ended without a [DONE] marker; treat as complete.
		out <- StreamChunk{Done: true}
	}()

	return out, nil
}
