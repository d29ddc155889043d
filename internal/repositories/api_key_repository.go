package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/PactInteractive/dbchat/internal/models"
)

type APIKeyRepository struct {
	store *Store
}

func NewAPIKeyRepository(store *Store) *APIKeyRepository {
	return &APIKeyRepository{store: store}
}

func (r *APIKeyRepository) Create(ctx context.Context, kind models.ProviderKind, value string) (models.APIKey, error) {
	key := models.APIKey{
		ID:        uuid.NewString(),
		Kind:      kind,
		Value:     value,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	query, args, err := r.store.sql.Insert("api_keys").
		Columns("id", "type", "value", "created_at").
		Values(key.ID, string(key.Kind), key.Value, key.CreatedAt.Format(time.DateTime)).
		ToSql()
	if err != nil {
		return models.APIKey{}, fmt.Errorf("build api key insert: %w", err)
	}
	if _, err := r.store.db.ExecContext(ctx, query, args...); err != nil {
		return models.APIKey{}, fmt.Errorf("create api key: %w", err)
	}
	return key, nil
}

func (r *APIKeyRepository) GetAll(ctx context.Context) ([]models.APIKey, error) {
	query, args, err := r.store.sql.Select("id", "type", "value", "created_at").
		From("api_keys").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build api key list: %w", err)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []models.APIKey
	for rows.Next() {
		key, err := scanAPIKey(rows.Scan)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *APIKeyRepository) GetByID(ctx context.Context, id string) (models.APIKey, error) {
	query, args, err := r.store.sql.Select("id", "type", "value", "created_at").
		From("api_keys").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.APIKey{}, fmt.Errorf("build api key get: %w", err)
	}

	key, err := scanAPIKey(r.store.db.QueryRowContext(ctx, query, args...).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.APIKey{}, ErrNotFound
	}
	return key, err
}

func (r *APIKeyRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.store.sql.Delete("api_keys").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build api key delete: %w", err)
	}
	if _, err := r.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}
	return nil
}

func scanAPIKey(scan func(...any) error) (models.APIKey, error) {
	var (
		key       models.APIKey
		kind      string
		createdAt string
	)
	if err := scan(&key.ID, &kind, &key.Value, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.APIKey{}, err
		}
		return models.APIKey{}, fmt.Errorf("scan api key: %w", err)
	}
	key.Kind = models.ProviderKind(kind)
	key.CreatedAt = parseStoreTime(createdAt)
	return key, nil
}

// parseStoreTime decodes sqlite's CURRENT_TIMESTAMP text format.
func parseStoreTime(v string) time.Time {
	t, _ := time.Parse(time.DateTime, v)
	return t
}
