package main

import (
	"fmt"
	"log/slog"

	"github.com/JaimeStill/oagrade/internal/app"
	"github.com/JaimeStill/oagrade/internal/config"
	"github.com/JaimeStill/oagrade/internal/infrastructure"
)

// session holds the started systems for one command invocation.
type session struct {
	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	domain *app.Domain
}

func openSession(opts *rootOptions) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !opts.verbose && cfg.Level() < slog.LevelWarn {
		cfg.LogLevel = slog.LevelWarn.String()
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := infra.Start(); err != nil {
		infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())
		return nil, err
	}

	runtime := app.NewRuntime(cfg, infra)
	return &session{
		cfg:    cfg,
		infra:  infra,
		domain: app.NewDomain(runtime),
	}, nil
}

func (s *session) Close() error {
	return s.infra.Lifecycle.Shutdown(s.cfg.ShutdownTimeoutDuration())
}
