package ai

import "net/http"

const xaiBaseURL = "https://api.x.ai/v1"

// NewXAI returns a provider for the xAI API, which speaks the OpenAI
// chat-completions protocol.
func NewXAI(apiKey string) *OpenAI {
	return &OpenAI{name: "xai", baseURL: xaiBaseURL, apiKey: apiKey, client: &http.Client{}}
}
