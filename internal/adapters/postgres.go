package adapters

import (
	"context"
	"fmt"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/PactInteractive/dbchat/internal/models"
)

// postgresSchemaQuery mirrors the MySQL catalog join for the public
// schema. Column aliases are uppercased so both engines produce the
// same row keys. ordinal_position keeps columns in declaration order.
const postgresSchemaQuery = `
SELECT
  c.table_name AS "TABLE_NAME",
  c.column_name AS "COLUMN_NAME",
  c.data_type AS "DATA_TYPE",
  CASE
    WHEN c.is_nullable = 'NO' THEN 'NOT NULL'
    ELSE 'NULLABLE'
  END AS nullable,
  COALESCE(tc.constraint_type, '') AS constraint_type
FROM
  information_schema.columns c
JOIN
  information_schema.tables t ON c.table_name = t.table_name AND c.table_schema = t.table_schema
LEFT JOIN
  information_schema.key_column_usage kcu ON c.table_name = kcu.table_name AND c.column_name = kcu.column_name AND c.table_schema = kcu.table_schema
LEFT JOIN
  information_schema.table_constraints tc ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema
WHERE
  c.table_schema = 'public'
  AND t.table_type = 'BASE TABLE'
ORDER BY
  c.table_name, c.ordinal_position
`

// PostgreSQL implements Adapter for PostgreSQL databases, through the
// pgx stdlib driver.
type PostgreSQL struct {
	driver string
	logger zerolog.Logger
}

var _ Adapter = (*PostgreSQL)(nil)

func NewPostgreSQL(logger zerolog.Logger) *PostgreSQL {
	return &PostgreSQL{
		driver: "pgx",
		logger: logger.With().Str("adapter", "postgresql").Logger(),
	}
}

func (a *PostgreSQL) Query(ctx context.Context, profile models.ConnectionProfile, query string, args ...any) ([]map[string]any, error) {
	tx := readOnlyTx{
		setup:    []string{"BEGIN READ ONLY"},
		commit:   "COMMIT",
		rollback: "ROLLBACK",
	}
	return runReadOnly(ctx, a.driver, a.dsn(profile), tx, a.logger, query, args...)
}

func (a *PostgreSQL) GetSchema(ctx context.Context, profile models.ConnectionProfile) (models.Schema, error) {
	rows, err := a.Query(ctx, profile, postgresSchemaQuery)
	if err != nil {
		return models.Schema{}, err
	}
	return buildSchema(rows, profile.Database, a.logger), nil
}

func (a *PostgreSQL) dsn(profile models.ConnectionProfile) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(profile.User, profile.Password),
		Host:     fmt.Sprintf("%s:%d", profile.Host, profile.PortOrDefault()),
		Path:     "/" + profile.Database,
		RawQuery: "sslmode=prefer",
	}
	return u.String()
}
