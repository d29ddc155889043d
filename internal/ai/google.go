package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const googleBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Google streams completions from the Gemini API.
type Google struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

var _ Provider = (*Google)(nil)

func NewGoogle(apiKey string) *Google {
	return &Google{baseURL: googleBaseURL, apiKey: apiKey, client: &http.Client{}}
}

func (p *Google) Name() string { return "google" }

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []googlePart `json:"parts"`
}

func (p *Google) Stream(ctx context.Context, req ChatRequest, emit func(token string) error) error {
	contents := make([]googleContent, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, googleContent{Role: role, Parts: []googlePart{{Text: m.Content}}})
	}

	body := map[string]any{"contents": contents}
	if req.System != "" {
		body["system_instruction"] = googleContent{Parts: []googlePart{{Text: req.System}}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("google: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse&key=%s",
		p.baseURL, url.PathEscape(req.Model), url.QueryEscape(p.apiKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("google: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("google: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("google API error (%d): %s", resp.StatusCode, respBody)
	}

	return readSSE(resp.Body, func(data []byte) error {
		var chunk struct {
			Candidates []struct {
				Content struct {
					Parts []googlePart `json:"parts"`
				} `json:"content"`
			} `json:"candidates"`
		}
		if err := json.Unmarshal(data, &chunk); err != nil {
			return fmt.Errorf("google: decode stream chunk: %w", err)
		}
		for _, candidate := range chunk.Candidates {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					if err := emit(part.Text); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}
