package llm

import "context"

// Role represents the role of the message sender (system, user, assistant).
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single message in the conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Options control a single completion call.
type Options struct {
	// MaxTokens caps the generated response length. Zero means the
	// provider's default.
	MaxTokens int
	// Temperature is the sampling temperature. Only applied when
	// HasTemperature is true, so zero stays a usable value.
	Temperature    float64
	HasTemperature bool
}

// Provider defines the interface for a chat-completion backend.
type Provider interface {
	// Chat sends a list of messages to the model and returns the response.
	Chat(ctx context.Context, messages []Message, opts *Options) (*Message, error)
}
