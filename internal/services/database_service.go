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

// ConnectionRequest is the payload for creating, updating and testing
// a connection profile. Label and context are optional: a test does
// not need them.
type ConnectionRequest struct {
	Label    string        `json:"label"`
	Engine   models.Engine `json:"type" binding:"required,oneof=mysql postgresql"`
	Context  string        `json:"context"`
	Host     string        `json:"host" binding:"required"`
	Port     string        `json:"port"`
	User     string        `json:"user" binding:"required"`
	Password string        `json:"password" binding:"required"`
	Database string        `json:"database" binding:"required"`
}

func (r ConnectionRequest) profile() models.ConnectionProfile {
	return models.ConnectionProfile{
		Label:    r.Label,
		Engine:   r.Engine,
		Context:  r.Context,
		Host:     r.Host,
		Port:     r.Port,
		User:     r.User,
		Password: r.Password,
		Database: r.Database,
	}
}

// TestConnectionResult reports reachability. Error is null on success
// so the client can branch on it directly.
type TestConnectionResult struct {
	Error *string `json:"error"`
}

// DatabaseService manages connection profiles.
type DatabaseService struct {
	databases *repositories.DatabaseRepository
	registry  *adapters.Registry
	logger    zerolog.Logger
}

func NewDatabaseService(databases *repositories.DatabaseRepository, registry *adapters.Registry, logger zerolog.Logger) *DatabaseService {
	return &DatabaseService{databases: databases, registry: registry, logger: logger}
}

func (s *DatabaseService) Create(ctx context.Context, req ConnectionRequest) (models.ConnectionProfile, error) {
	return s.databases.Create(ctx, req.profile())
}

func (s *DatabaseService) GetAll(ctx context.Context) ([]models.ConnectionProfile, error) {
	return s.databases.GetAll(ctx)
}

func (s *DatabaseService) GetByID(ctx context.Context, id string) (models.ConnectionProfile, error) {
	profile, err := s.databases.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.ConnectionProfile{}, apperrors.NotFoundf("Database %s not found", id)
	}
	return profile, err
}

func (s *DatabaseService) Update(ctx context.Context, id string, req ConnectionRequest) (models.ConnectionProfile, error) {
	profile := req.profile()
	err := s.databases.Update(ctx, id, profile)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.ConnectionProfile{}, apperrors.NotFoundf("Database %s not found", id)
	}
	if err != nil {
		return models.ConnectionProfile{}, err
	}
	profile.ID = id
	return profile, nil
}

func (s *DatabaseService) Delete(ctx context.Context, id string) error {
	return s.databases.Delete(ctx, id)
}

// TestConnection attempts a full schema introspection against the
// given credentials. Failures are data, not errors: the result always
// comes back with a 200 and the error message, if any, inside.
func (s *DatabaseService) TestConnection(ctx context.Context, req ConnectionRequest) TestConnectionResult {
	profile := req.profile()

	adapter, err := s.registry.Resolve(profile.Engine)
	if err == nil {
		_, err = adapter.GetSchema(ctx, profile)
	}
	if err != nil {
		s.logger.Info().Err(err).Str("host", profile.Host).Str("database", profile.Database).Msg("connection test failed")
		message := err.Error()
		return TestConnectionResult{Error: &message}
	}
	return TestConnectionResult{}
}
