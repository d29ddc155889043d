package models

import "time"

// ProviderKind identifies an AI completion provider.
type ProviderKind string

const (
	ProviderGoogle ProviderKind = "google"
	ProviderOpenAI ProviderKind = "openai"
	ProviderXAI    ProviderKind = "xai"
)

// APIKey is a stored credential for one completion provider.
type APIKey struct {
	ID        string       `json:"id"`
	Kind      ProviderKind `json:"type"`
	Value     string       `json:"value"`
	CreatedAt time.Time    `json:"created_at"`
}
