package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/PactInteractive/dbchat/internal/adapters"
	"github.com/PactInteractive/dbchat/internal/apperrors"
	"github.com/PactInteractive/dbchat/internal/models"
	"github.com/PactInteractive/dbchat/internal/repositories"
)

func newQueryService(t *testing.T) (*QueryService, *repositories.DatabaseRepository) {
	t.Helper()
	store, err := repositories.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := zerolog.Nop()
	databaseRepo := repositories.NewDatabaseRepository(store)
	settings := NewSettingsService(repositories.NewSettingsRepository(store), logger)
	service := NewQueryService(databaseRepo, settings, adapters.NewRegistry(logger), logger)
	return service, databaseRepo
}

func TestExecuteUnknownDatabase(t *testing.T) {
	service, _ := newQueryService(t)

	_, err := service.Execute(context.Background(), ExecuteQueryRequest{
		DatabaseID: "missing",
		Query:      "SELECT 1",
	})

	var notFound *apperrors.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want NotFoundError", err)
	}
}

func TestExecuteUnsupportedEngine(t *testing.T) {
	service, databases := newQueryService(t)

	profile, err := databases.Create(context.Background(), models.ConnectionProfile{
		Label: "odd", Engine: models.Engine("sybase"),
		Host: "localhost", Port: "1", User: "u", Password: "p", Database: "d",
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}

	_, err = service.Execute(context.Background(), ExecuteQueryRequest{
		DatabaseID: profile.ID,
		Query:      "SELECT 1",
	})

	var badRequest *apperrors.BadRequestError
	if !errors.As(err, &badRequest) {
		t.Fatalf("err = %v, want BadRequestError", err)
	}
}
