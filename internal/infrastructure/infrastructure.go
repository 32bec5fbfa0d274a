// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, history database, gallery) that
// domain systems require.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/oagrade/internal/config"
	"github.com/JaimeStill/oagrade/internal/history"
	"github.com/JaimeStill/oagrade/pkg/database"
	"github.com/JaimeStill/oagrade/pkg/gallery"
	"github.com/JaimeStill/oagrade/pkg/lifecycle"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, and artifact storage.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Gallery   gallery.System
}

// New creates an Infrastructure from the application configuration, logging
// to stderr. It initializes all systems but does not start them; call Start
// separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogOutput(cfg, os.Stderr)
}

// NewWithLogOutput is New with log output directed to w.
func NewWithLogOutput(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level()}))

	db, err := database.New(&cfg.Database, history.Migrations(), logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	g, err := gallery.New(&cfg.Gallery, logger)
	if err != nil {
		return nil, fmt.Errorf("gallery init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Gallery:   g,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator
// and waits for their startup hooks to complete.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Gallery.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("gallery start failed: %w", err)
	}
	if err := i.Lifecycle.WaitForStartup(); err != nil {
		return err
	}
	return nil
}
