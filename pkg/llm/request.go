package llm

// ChatRequest is a provider-agnostic chat completion request.
type ChatRequest struct {
	// Model name (e.g., "phi3.5", "gpt-4o-mini")
	Model string `json:"model"`

	// Conversation messages, system prompt first when present
	Messages []Message `json:"messages"`

	Temperature *float64 `json:"temperature,omitempty"`
}

// FromPrompt builds a two-message chat request from p.
func FromPrompt(p Prompt) *ChatRequest {
	temp := p.Temperature
	msgs := make([]Message, 0, 2)
	if p.System != "" {
		msgs = append(msgs, NewTextMessage(RoleSystem, p.System))
	}
	msgs = append(msgs, NewTextMessage(RoleUser, p.User))
	return &ChatRequest{Model: p.Model, Messages: msgs, Temperature: &temp}
}
