package outbound

import (
	"context"
	"errors"
)

// ErrProviderUnavailable is returned when the text generation provider is
// unreachable or its circuit is open.
var ErrProviderUnavailable = errors.New("llm provider unavailable")

// CompletionRequest is a single-turn text generation request.
type CompletionRequest struct {
	SystemPrompt string
	Prompt       string
	Temperature  float32
	MaxTokens    int
}

// Completion is a generated answer.
type Completion struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// LLMProviderPort defines a text generation provider.
type LLMProviderPort interface {
	// Name returns the provider name used in logs and metrics.
	Name() string

	// Complete generates text for the request.
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)
}
