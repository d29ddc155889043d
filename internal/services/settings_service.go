package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/PactInteractive/dbchat/internal/models"
	"github.com/PactInteractive/dbchat/internal/repositories"
)

// SettingsService exposes the last-used-selection singleton.
type SettingsService struct {
	settings *repositories.SettingsRepository
	logger   zerolog.Logger
}

func NewSettingsService(settings *repositories.SettingsRepository, logger zerolog.Logger) *SettingsService {
	return &SettingsService{settings: settings, logger: logger}
}

// Get returns the stored selection, or the defaults when nothing has
// been remembered yet. Missing settings are expected on first launch,
// never an error.
func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Settings{Model: models.DefaultModel}, nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

// Remember persists the selection without blocking the caller. The
// request that triggered it must not fail or wait on this write, so
// failures are only logged.
func (s *SettingsService) Remember(settings models.Settings) {
	go func() {
		if _, err := s.settings.Set(context.Background(), settings); err != nil {
			s.logger.Error().Err(err).
				Str("database_id", settings.DatabaseID).
				Str("api_key_id", settings.APIKeyID).
				Str("model", settings.Model).
				Msg("settings failed to update")
		}
	}()
}
