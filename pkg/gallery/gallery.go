// Package gallery saves generated artifacts to a sink: a local directory or
// an Azure Blob Storage container.
package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/JaimeStill/oagrade/pkg/lifecycle"
)

// System saves artifacts and reports where they landed.
type System interface {
	// Start registers a startup hook that prepares the sink.
	Start(lc *lifecycle.Coordinator) error
	// Save writes data under key and returns the saved location.
	Save(ctx context.Context, key string, data []byte) (string, error)
}

// New creates the sink selected by cfg.Provider. cfg must be finalized.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	switch cfg.Provider {
	case ProviderFilesystem:
		return newFilesystem(cfg.Directory, logger), nil
	case ProviderAzure:
		return newAzure(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown gallery provider %q", cfg.Provider)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	return nil
}

func contentType(key string, data []byte) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
