package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/oagrade/internal/config"
	"github.com/JaimeStill/oagrade/internal/stub"
	"github.com/JaimeStill/oagrade/pkg/lifecycle"
	"github.com/JaimeStill/oagrade/pkg/routes"
)

type Server struct {
	lc     *lifecycle.Coordinator
	logger *slog.Logger
	http   *httpServer
}

func NewServer(cfg *config.Config) *Server {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))

	lc := lifecycle.New()

	handler := stub.NewHandler(
		logger,
		lc,
		cfg.Classifier.FieldName,
		cfg.Classifier.MaxImageSizeBytes(),
	)

	logger.Info("routes registered", "patterns", routes.Patterns(handler.Routes()))

	return &Server{
		lc:     lc,
		logger: logger,
		http:   newHTTPServer(&cfg.Server, stub.Router(handler, logger), logger),
	}
}

func (s *Server) Start() error {
	if err := s.http.Start(s.lc); err != nil {
		return err
	}
	return s.lc.WaitForStartup()
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.logger.Info("initiating shutdown")
	return s.lc.Shutdown(timeout)
}
