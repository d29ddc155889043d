package models

import (
	"strconv"
	"time"
)

// Engine identifies a supported database engine.
type Engine string

const (
	EngineMySQL      Engine = "mysql"
	EnginePostgreSQL Engine = "postgresql"
)

// Default ports applied when a profile's port is absent or unparseable.
const (
	DefaultMySQLPort      = 3306
	DefaultPostgreSQLPort = 5432
)

// ConnectionProfile describes how to reach one target database.
// Passwords are stored and transmitted in plain text; the profile is a
// local, single-operator record, not a shared credential.
type ConnectionProfile struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Engine    Engine    `json:"type"`
	Context   string    `json:"context"`
	Host      string    `json:"host"`
	Port      string    `json:"port"`
	User      string    `json:"user"`
	Password  string    `json:"password"`
	Database  string    `json:"database"`
	CreatedAt time.Time `json:"created_at"`
}

// PortOrDefault parses the profile's port, falling back to the
// engine-specific default when the field is empty or not a number.
func (p ConnectionProfile) PortOrDefault() int {
	if port, err := strconv.Atoi(p.Port); err == nil && port > 0 {
		return port
	}
	if p.Engine == EnginePostgreSQL {
		return DefaultPostgreSQLPort
	}
	return DefaultMySQLPort
}
