package ai

import (
	"fmt"

	"github.com/PactInteractive/dbchat/internal/models"
)

// Resolve picks the provider client for an API key kind.
func Resolve(kind models.ProviderKind, apiKey string) (Provider, error) {
	switch kind {
	case models.ProviderGoogle:
		return NewGoogle(apiKey), nil
	case models.ProviderOpenAI:
		return NewOpenAI(apiKey), nil
	case models.ProviderXAI:
		return NewXAI(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", kind)
	}
}
