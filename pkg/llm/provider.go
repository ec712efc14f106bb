package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// StreamChunk is one fragment of a streamed generation. After a chunk
// with Done=true (or a non-nil Err) the channel is closed.
type StreamChunk struct {
	Content string
	Done    bool
	Err     error
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// GenerateStream streams the response token by token. The returned
	// channel is closed once the final chunk has been delivered or the
	// context is cancelled.
	GenerateStream(ctx context.Context, prompt string, options ...Option) (<-chan StreamChunk, error)
}

// SQLExtractor is an optional capability: providers that post-process
// their own raw output into a bare SQL statement implement it. Callers
// fall back to generic extraction when the assertion fails.
type SQLExtractor interface {
	ExtractSQL(response string) string
}
