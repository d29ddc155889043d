package models

// Column nullability tags, exactly as the catalog queries emit them.
const (
	NotNull  = "NOT NULL"
	Nullable = "NULLABLE"
)

// Column is one introspected column. DataType is the engine-reported
// type string, passed through verbatim; MySQL and PostgreSQL use
// different vocabularies. Constraint is "PRIMARY KEY", "FOREIGN KEY" or
// empty. The catalog join yields at most one constraint per column,
// so a column that is both PK and FK observes whichever row the engine
// returns.
type Column struct {
	Name       string `json:"column_name"`
	DataType   string `json:"data_type"`
	Nullable   string `json:"nullable"`
	Constraint string `json:"constraint_type"`
}

// Table is one introspected table. Columns follow catalog row order
// and are never empty: tables with no introspectable columns are
// dropped rather than represented.
type Table struct {
	Name    string   `json:"table_name"`
	Columns []Column `json:"columns"`
}

// Schema is the canonical, engine-independent shape of one database.
// Request-scoped: recomputed on every schema request, never cached.
type Schema struct {
	Tables []Table `json:"tables"`
}
