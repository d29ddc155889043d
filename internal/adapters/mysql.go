package adapters

import (
	"context"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"github.com/PactInteractive/dbchat/internal/models"
)

// mysqlSchemaQuery joins the information_schema catalog views for
// tables, columns and constraints in one round trip. The LEFT JOIN
// chain yields at most one constraint row per column.
const mysqlSchemaQuery = `
SELECT
  t.TABLE_NAME,
  c.COLUMN_NAME,
  c.DATA_TYPE,
  CASE
    WHEN c.IS_NULLABLE = 'NO' THEN 'NOT NULL'
    ELSE 'NULLABLE'
  END AS nullable,
  COALESCE(tc.CONSTRAINT_TYPE, '') AS constraint_type
FROM
  information_schema.TABLES t
JOIN
  information_schema.COLUMNS c
  ON t.TABLE_NAME = c.TABLE_NAME
LEFT JOIN
  information_schema.KEY_COLUMN_USAGE kcu
  ON c.TABLE_NAME = kcu.TABLE_NAME
  AND c.COLUMN_NAME = kcu.COLUMN_NAME
  AND kcu.TABLE_SCHEMA = t.TABLE_SCHEMA
LEFT JOIN
  information_schema.TABLE_CONSTRAINTS tc
  ON kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
  AND tc.TABLE_SCHEMA = t.TABLE_SCHEMA
WHERE
  t.TABLE_SCHEMA = ?
ORDER BY
  t.TABLE_NAME, c.COLUMN_NAME
`

// MySQL implements Adapter for MySQL databases.
type MySQL struct {
	driver string
	logger zerolog.Logger
}

var _ Adapter = (*MySQL)(nil)

func NewMySQL(logger zerolog.Logger) *MySQL {
	return &MySQL{
		driver: "mysql",
		logger: logger.With().Str("adapter", "mysql").Logger(),
	}
}

func (a *MySQL) Query(ctx context.Context, profile models.ConnectionProfile, query string, args ...any) ([]map[string]any, error) {
	tx := readOnlyTx{
		setup:    []string{"SET TRANSACTION READ ONLY", "START TRANSACTION"},
		commit:   "COMMIT",
		rollback: "ROLLBACK",
	}
	return runReadOnly(ctx, a.driver, a.dsn(profile), tx, a.logger, query, args...)
}

func (a *MySQL) GetSchema(ctx context.Context, profile models.ConnectionProfile) (models.Schema, error) {
	rows, err := a.Query(ctx, profile, mysqlSchemaQuery, profile.Database)
	if err != nil {
		return models.Schema{}, err
	}
	return buildSchema(rows, profile.Database, a.logger), nil
}

func (a *MySQL) dsn(profile models.ConnectionProfile) string {
	cfg := mysql.NewConfig()
	cfg.User = profile.User
	cfg.Passwd = profile.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", profile.Host, profile.PortOrDefault())
	cfg.DBName = profile.Database
	cfg.ParseTime = true
	return cfg.FormatDSN()
}
