package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const openaiBaseURL = "https://api.openai.com/v1"

// OpenAI streams chat completions from an OpenAI-compatible endpoint.
// The xAI provider reuses this client with a different base URL.
type OpenAI struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ Provider = (*OpenAI)(nil)

func NewOpenAI(apiKey string) *OpenAI {
	// No overall timeout: the request stays open for the lifetime of
	// the token stream. Cancellation comes from the request context.
	return &OpenAI{name: "openai", baseURL: openaiBaseURL, apiKey: apiKey, client: &http.Client{}}
}

func (p *OpenAI) Name() string { return p.name }

func (p *OpenAI) Stream(ctx context.Context, req ChatRequest, emit func(token string) error) error {
	type apiMsg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	messages := make([]apiMsg, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, apiMsg{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, apiMsg(m))
	}

	payload, err := json.Marshal(map[string]any{
		"model":    req.Model,
		"messages": messages,
		"stream":   true,
	})
	if err != nil {
		return fmt.Errorf("%s: marshal request: %w", p.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", p.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("%s API error (%d): %s", p.name, resp.StatusCode, body)
	}

	return readSSE(resp.Body, func(data []byte) error {
		var chunk struct {
			Choices []struct {
				Delta struct {
					Content string `json:"content"`
				} `json:"delta"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(data, &chunk); err != nil {
			return fmt.Errorf("%s: decode stream chunk: %w", p.name, err)
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				if err := emit(choice.Delta.Content); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
