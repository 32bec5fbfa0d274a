// Package database provides SQLite connection management with lifecycle
// coordination and embedded schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JaimeStill/oagrade/pkg/lifecycle"
)

// System manages database connections and lifecycle coordination.
type System interface {
	// Connection returns the underlying database connection pool.
	Connection() *sql.DB
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	// The startup hook verifies the connection and applies pending migrations.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	path        string
	migrations  fs.FS
	logger      *slog.Logger
	connTimeout time.Duration
}

// New creates a database system with the given configuration. migrations may
// be nil when the schema is managed elsewhere. New calls sql.Open to configure
// the pool but does not touch the database file until Start is called.
func New(cfg *Config, migrations fs.FS, logger *slog.Logger) (System, error) {
	db, err := sql.Open("sqlite", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	// every connection to :memory: is a separate database
	if cfg.Memory() {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	return &database{
		conn:        db,
		path:        cfg.Path,
		migrations:  migrations,
		logger:      logger.With("system", "database"),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database connection", "path", d.path)

	lc.OnStartup(func() error {
		if err := d.open(lc.Context()); err != nil {
			d.logger.Error("database startup failed", "error", err)
			return err
		}

		d.logger.Info("database connection established")
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.logger.Info("closing database connection")

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}

		d.logger.Info("database connection closed")
	})

	return nil
}

func (d *database) open(ctx context.Context) error {
	if d.path != MemoryPath {
		if dir := filepath.Dir(d.path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("%w: create directory %s: %w", ErrNotReady, dir, err)
			}
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, d.connTimeout)
	defer cancel()

	if err := d.conn.PingContext(pingCtx); err != nil {
		return fmt.Errorf("%w: ping: %w", ErrNotReady, err)
	}

	if d.migrations == nil {
		return nil
	}

	if err := Migrate(d.conn, d.migrations); err != nil {
		return err
	}

	d.logger.Info("database migrations applied")
	return nil
}
