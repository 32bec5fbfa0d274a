package database

import "errors"

var (
	// ErrNotReady indicates the database connection could not be established.
	ErrNotReady = errors.New("database not ready")
	// ErrMigrationFailed indicates the schema migrations could not be applied.
	ErrMigrationFailed = errors.New("database migration failed")
)
