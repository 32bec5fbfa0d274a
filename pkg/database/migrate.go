package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
)

// NewMigrator builds a migrate instance over an open SQLite connection using
// the *.sql files at the root of migrations.
//
// Closing the returned instance closes db as well.
func NewMigrator(db *sql.DB, migrations fs.FS) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations, ".")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return m, nil
}

// Migrate applies all pending up migrations. The connection stays open.
func Migrate(db *sql.DB, migrations fs.FS) error {
	m, err := NewMigrator(db, migrations)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
	}

	return nil
}
