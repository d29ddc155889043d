// Package ai implements streaming clients for the supported
// completion providers behind one Provider interface.
package ai

import "context"

// Message is one turn of conversation history sent to a provider.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// ChatRequest carries everything a provider needs for one completion.
type ChatRequest struct {
	Model    string
	System   string
	Messages []Message

	// MaxSteps bounds internal tool-call round trips a provider may
	// perform. The current providers complete in a single step.
	MaxSteps int
}

// Provider streams a completion token by token. Stream returns only
// after the provider is done or failed; emit errors (for example a
// disconnected consumer) abort the stream and propagate.
type Provider interface {
	Stream(ctx context.Context, req ChatRequest, emit func(token string) error) error
	Name() string
}
