package driven

import "context"

// CompletionService produces chat completions from a hosted or local
// language model. Used for both history-aware query reformulation and
// answer synthesis.
//
// Implementations may include:
//   - Groq (llama-3.1 family, OpenAI-compatible API)
//   - Ollama (local models)
type CompletionService interface {
	// Complete submits an ordered message sequence and returns the
	// generated text. Provider errors are returned to the caller, never
	// suppressed.
	Complete(ctx context.Context, messages []ChatMessage, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// Message role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompleteOptions configures completion behaviour.
type CompleteOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
