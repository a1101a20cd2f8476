package inference

import "time"

// Message is one chat turn sent upstream.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ProviderConfig describes one OpenAI-compatible chat-completions backend.
// A provider with an empty APIKey stays in the chain but every attempt
// against it is skipped and recorded as a missing-credential failure.
type ProviderConfig struct {
	Name                string
	BaseURL             string
	ChatCompletionsPath string
	APIKey              string
	Model               string
	MaxTokens           int
	Timeout             time.Duration

	// ExtraHeaders are sent verbatim on every request. OpenRouter wants
	// HTTP-Referer and X-Title for attribution.
	ExtraHeaders map[string]string
}
