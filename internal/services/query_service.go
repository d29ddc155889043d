package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/PactInteractive/dbchat/internal/adapters"
	"github.com/PactInteractive/dbchat/internal/apperrors"
	"github.com/PactInteractive/dbchat/internal/models"
	"github.com/PactInteractive/dbchat/internal/repositories"
)

// ExecuteQueryRequest carries one console query. The api_key_id and
// model ride along only so the last-used selection can be remembered.
type ExecuteQueryRequest struct {
	DatabaseID string `json:"database_id" binding:"required"`
	APIKeyID   string `json:"api_key_id"`
	Model      string `json:"model"`
	Query      string `json:"query" binding:"required"`
}

// QueryService runs user-written SQL against a stored connection
// profile through the read-only adapters.
type QueryService struct {
	databases *repositories.DatabaseRepository
	settings  *SettingsService
	registry  *adapters.Registry
	logger    zerolog.Logger
}

func NewQueryService(
	databases *repositories.DatabaseRepository,
	settings *SettingsService,
	registry *adapters.Registry,
	logger zerolog.Logger,
) *QueryService {
	return &QueryService{databases: databases, settings: settings, registry: registry, logger: logger}
}

// Execute resolves the profile, remembers the selection and runs the
// query text verbatim. Adapter failures surface as bad requests: the
// query text came from the caller.
func (s *QueryService) Execute(ctx context.Context, req ExecuteQueryRequest) ([]map[string]any, error) {
	profile, err := s.databases.GetByID(ctx, req.DatabaseID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFoundf("Database %s not found", req.DatabaseID)
	}
	if err != nil {
		return nil, err
	}

	s.settings.Remember(models.Settings{
		DatabaseID: req.DatabaseID,
		APIKeyID:   req.APIKeyID,
		Model:      req.Model,
	})

	adapter, err := s.registry.Resolve(profile.Engine)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}

	s.logger.Info().Str("database", profile.Database).Msg("executing query")
	rows, err := adapter.Query(ctx, profile, req.Query)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}
	return rows, nil
}
