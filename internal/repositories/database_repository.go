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

// DatabaseRepository stores connection profiles. The table is named
// "databases" to match what the UI has always called them.
type DatabaseRepository struct {
	store *Store
}

func NewDatabaseRepository(store *Store) *DatabaseRepository {
	return &DatabaseRepository{store: store}
}

var databaseColumns = []string{"id", "label", "type", "context", "host", "port", "user", "password", "database", "created_at"}

func (r *DatabaseRepository) Create(ctx context.Context, profile models.ConnectionProfile) (models.ConnectionProfile, error) {
	profile.ID = uuid.NewString()
	profile.CreatedAt = time.Now().UTC().Truncate(time.Second)

	query, args, err := r.store.sql.Insert("databases").
		Columns("id", "label", "type", "context", "host", "port", "user", "password", "database", "created_at").
		Values(profile.ID, profile.Label, string(profile.Engine), profile.Context, profile.Host, profile.Port, profile.User, profile.Password, profile.Database, profile.CreatedAt.Format(time.DateTime)).
		ToSql()
	if err != nil {
		return models.ConnectionProfile{}, fmt.Errorf("build database insert: %w", err)
	}
	if _, err := r.store.db.ExecContext(ctx, query, args...); err != nil {
		return models.ConnectionProfile{}, fmt.Errorf("create database profile: %w", err)
	}
	return profile, nil
}

func (r *DatabaseRepository) GetAll(ctx context.Context) ([]models.ConnectionProfile, error) {
	query, args, err := r.store.sql.Select(databaseColumns...).
		From("databases").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build database list: %w", err)
	}

	rows, err := r.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list database profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.ConnectionProfile
	for rows.Next() {
		profile, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (r *DatabaseRepository) GetByID(ctx context.Context, id string) (models.ConnectionProfile, error) {
	query, args, err := r.store.sql.Select(databaseColumns...).
		From("databases").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.ConnectionProfile{}, fmt.Errorf("build database get: %w", err)
	}

	profile, err := scanProfile(r.store.db.QueryRowContext(ctx, query, args...).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ConnectionProfile{}, ErrNotFound
	}
	return profile, err
}

func (r *DatabaseRepository) Update(ctx context.Context, id string, profile models.ConnectionProfile) error {
	query, args, err := r.store.sql.Update("databases").
		Set("label", profile.Label).
		Set("type", string(profile.Engine)).
		Set("context", profile.Context).
		Set("host", profile.Host).
		Set("port", profile.Port).
		Set("user", profile.User).
		Set("password", profile.Password).
		Set("database", profile.Database).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build database update: %w", err)
	}

	res, err := r.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update database profile: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *DatabaseRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.store.sql.Delete("databases").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build database delete: %w", err)
	}
	if _, err := r.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete database profile: %w", err)
	}
	return nil
}

func scanProfile(scan func(...any) error) (models.ConnectionProfile, error) {
	var (
		profile   models.ConnectionProfile
		engine    string
		context   sql.NullString
		createdAt string
	)
	err := scan(&profile.ID, &profile.Label, &engine, &context, &profile.Host, &profile.Port, &profile.User, &profile.Password, &profile.Database, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ConnectionProfile{}, err
		}
		return models.ConnectionProfile{}, fmt.Errorf("scan database profile: %w", err)
	}
	profile.Engine = models.Engine(engine)
	profile.Context = context.String
	profile.CreatedAt = parseStoreTime(createdAt)
	return profile, nil
}
