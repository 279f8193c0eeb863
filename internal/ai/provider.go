package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider runs one non-streaming chat completion against a bound model.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// ModelLister reports the model identifiers a runtime can serve.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}
