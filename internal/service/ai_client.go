package service

import (
	"context"
)

// CompletionClient is the boundary to the language model that writes chat replies
type CompletionClient interface {
	// Complete returns the assistant reply for the conversation (non-streaming)
	Complete(ctx context.Context, messages []ChatMessage) (string, error)

	// CompleteStream streams the reply; onDelta receives each content chunk
	// and the full reply is returned at the end
	CompleteStream(ctx context.Context, messages []ChatMessage, onDelta func(delta string) error) (string, error)

	// IsEnabled returns whether the client is configured and ready
	IsEnabled() bool
}

// StreamChunk represents a generic streaming response chunk
type StreamChunk struct {
	// Regular content (always present in streaming)
	Content string

	// Thinking/reasoning content (provider-specific, e.g., DeepSeek)
	ThinkingContent string

	// Role (assistant, user, system)
	Role string

	// Whether this is the final chunk
	Done bool
}

// Ensure OpenAIClient implements CompletionClient
var _ CompletionClient = (*OpenAIClient)(nil)
