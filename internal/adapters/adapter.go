// Package adapters implements the engine-specific query and schema
// introspection contract. Each supported engine (MySQL, PostgreSQL)
// has one implementation; the Registry maps an engine kind to it.
//
// Safety model: every Query call owns a fresh connection for its
// lifetime and forces the session into a read-only transaction before
// executing the caller-supplied text verbatim. The read-only
// transaction is the only boundary against mutation; adapters perform
// no parsing or statement filtering.
package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/PactInteractive/dbchat/internal/models"
)

// Adapter is the contract both engine implementations satisfy.
type Adapter interface {
	// Query opens a connection, runs the text inside a read-only
	// transaction and returns the rows as column name to value maps.
	Query(ctx context.Context, profile models.ConnectionProfile, query string, args ...any) ([]map[string]any, error)

	// GetSchema introspects the engine catalog and normalizes it into
	// the canonical schema shape.
	GetSchema(ctx context.Context, profile models.ConnectionProfile) (models.Schema, error)
}

// QueryError wraps any connection, transaction or execution failure so
// driver-specific error shapes never leak upward.
type QueryError struct {
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("failed to execute query: %v", e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// ErrUnsupportedEngine is returned by the registry for engine kinds
// with no registered adapter. Callers treat it as an invalid profile.
var ErrUnsupportedEngine = errors.New("unsupported database engine")

// Registry maps an engine kind to its adapter. Built once at startup.
type Registry struct {
	adapters map[models.Engine]Adapter
}

func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		adapters: map[models.Engine]Adapter{
			models.EngineMySQL:      NewMySQL(logger),
			models.EnginePostgreSQL: NewPostgreSQL(logger),
		},
	}
}

func (r *Registry) Resolve(engine models.Engine) (Adapter, error) {
	adapter, ok := r.adapters[engine]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEngine, engine)
	}
	return adapter, nil
}

// readOnlyTx holds the engine-specific statements that frame a
// read-only transaction.
type readOnlyTx struct {
	setup    []string
	commit   string
	rollback string
}

// runReadOnly is the shared per-call connection lifecycle: open, pin a
// single session, force it read-only, execute, commit on success, roll
// back on failure. Rollback errors are logged and swallowed so they
// never mask the original failure. The connection is released on every
// exit path.
func runReadOnly(ctx context.Context, driverName, dsn string, tx readOnlyTx, logger zerolog.Logger, query string, args ...any) ([]map[string]any, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	defer db.Close()

	// Session-level statements must all land on the same connection,
	// so pin one instead of going through the pool.
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	defer conn.Close()

	rollback := func() {
		if _, rbErr := conn.ExecContext(ctx, tx.rollback); rbErr != nil {
			logger.Error().Err(rbErr).Msg("rollback failed")
		}
	}

	for _, stmt := range tx.setup {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			rollback()
			return nil, &QueryError{Err: err}
		}
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		rollback()
		return nil, &QueryError{Err: err}
	}

	out, err := scanRows(rows)
	if err != nil {
		rollback()
		return nil, &QueryError{Err: err}
	}

	// A no-op safety net: the transaction is read-only, but committing
	// guarantees it is terminated before the connection is released.
	if _, err := conn.ExecContext(ctx, tx.commit); err != nil {
		rollback()
		return nil, &QueryError{Err: err}
	}

	return out, nil
}

// scanRows converts a result set into column name to value maps.
// Driver byte slices become strings and timestamps RFC 3339 so the
// rows JSON-encode predictably.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			switch v := values[i].(type) {
			case []byte:
				rowMap[col] = string(v)
			case time.Time:
				rowMap[col] = v.Format(time.RFC3339)
			default:
				rowMap[col] = v
			}
		}
		result = append(result, rowMap)
	}

	return result, rows.Err()
}

// buildSchema groups catalog rows by table, preserving first-seen
// table order and row order within each table. Rows missing a table
// name, column name or data type are dropped with a warning; an empty
// input yields zero tables, not an error.
func buildSchema(rows []map[string]any, database string, logger zerolog.Logger) models.Schema {
	if len(rows) == 0 {
		logger.Warn().Str("database", database).Msg("no tables found in database")
	}

	index := map[string]int{}
	var tables []models.Table
	for _, row := range rows {
		tableName := asString(row["TABLE_NAME"])
		columnName := asString(row["COLUMN_NAME"])
		dataType := asString(row["DATA_TYPE"])
		if tableName == "" || columnName == "" || dataType == "" {
			logger.Warn().Interface("row", row).Msg("skipping schema row with missing data")
			continue
		}

		i, ok := index[tableName]
		if !ok {
			i = len(tables)
			index[tableName] = i
			tables = append(tables, models.Table{Name: tableName})
		}
		tables[i].Columns = append(tables[i].Columns, models.Column{
			Name:       columnName,
			DataType:   dataType,
			Nullable:   asString(row["nullable"]),
			Constraint: asString(row["constraint_type"]),
		})
	}

	if len(tables) == 0 && len(rows) > 0 {
		logger.Warn().Str("database", database).Msg("no valid tables processed despite receiving rows")
	}

	return models.Schema{Tables: tables}
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
