package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/PactInteractive/dbchat/internal/models"
)

// SettingsRepository manages the single last-used-selection row.
type SettingsRepository struct {
	store *Store
}

func NewSettingsRepository(store *Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get returns the singleton, or ErrNotFound before the first prompt
// has ever been sent.
func (r *SettingsRepository) Get(ctx context.Context) (models.Settings, error) {
	var (
		settings   models.Settings
		databaseID sql.NullString
		apiKeyID   sql.NullString
	)
	err := r.store.db.QueryRowContext(ctx,
		`SELECT database_id, api_key_id, model FROM settings WHERE id = ?`,
		models.SettingsID,
	).Scan(&databaseID, &apiKeyID, &settings.Model)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, ErrNotFound
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	settings.ID = models.SettingsID
	settings.DatabaseID = databaseID.String
	settings.APIKeyID = apiKeyID.String
	return settings, nil
}

// Set overwrites the singleton wholesale. INSERT OR REPLACE keeps the
// constant row id; there is no history.
func (r *SettingsRepository) Set(ctx context.Context, settings models.Settings) (models.Settings, error) {
	_, err := r.store.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO settings (id, database_id, api_key_id, model) VALUES (?, ?, ?, ?)`,
		models.SettingsID, nullIfEmpty(settings.DatabaseID), nullIfEmpty(settings.APIKeyID), settings.Model,
	)
	if err != nil {
		return models.Settings{}, fmt.Errorf("set settings: %w", err)
	}
	settings.ID = models.SettingsID
	return settings, nil
}

// nullIfEmpty keeps the cleared-reference foreign keys honest: an
// empty selection is stored as NULL, not as a dangling empty id.
func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
