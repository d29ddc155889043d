package services

import (
	"context"
	"errors"

	"github.com/PactInteractive/dbchat/internal/apperrors"
	"github.com/PactInteractive/dbchat/internal/models"
	"github.com/PactInteractive/dbchat/internal/repositories"
)

// CreateAPIKeyRequest stores one provider credential.
type CreateAPIKeyRequest struct {
	Kind  models.ProviderKind `json:"type" binding:"required,oneof=google openai xai"`
	Value string              `json:"value" binding:"required"`
}

// APIKeyService manages stored provider credentials.
type APIKeyService struct {
	apiKeys *repositories.APIKeyRepository
}

func NewAPIKeyService(apiKeys *repositories.APIKeyRepository) *APIKeyService {
	return &APIKeyService{apiKeys: apiKeys}
}

func (s *APIKeyService) Create(ctx context.Context, req CreateAPIKeyRequest) (models.APIKey, error) {
	return s.apiKeys.Create(ctx, req.Kind, req.Value)
}

func (s *APIKeyService) GetAll(ctx context.Context) ([]models.APIKey, error) {
	return s.apiKeys.GetAll(ctx)
}

func (s *APIKeyService) GetByID(ctx context.Context, id string) (models.APIKey, error) {
	key, err := s.apiKeys.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.APIKey{}, apperrors.NotFoundf("API key %s not found", id)
	}
	return key, err
}

func (s *APIKeyService) Delete(ctx context.Context, id string) error {
	return s.apiKeys.Delete(ctx, id)
}
