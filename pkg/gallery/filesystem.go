package gallery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JaimeStill/oagrade/pkg/lifecycle"
)

type filesystem struct {
	dir    string
	logger *slog.Logger
}

func newFilesystem(dir string, logger *slog.Logger) *filesystem {
	return &filesystem{
		dir:    dir,
		logger: logger.With("system", "gallery", "provider", ProviderFilesystem),
	}
}

func (f *filesystem) Start(lc *lifecycle.Coordinator) error {
	f.logger.Info("starting gallery", "directory", f.dir)

	lc.OnStartup(func() error {
		if err := os.MkdirAll(f.dir, 0o750); err != nil {
			f.logger.Error("gallery directory initialization failed", "error", err)
			return mapFSError(err)
		}

		f.logger.Info("gallery directory ready", "directory", f.dir)
		return nil
	})

	return nil
}

// Save writes to a temporary file in the target directory and renames it
// into place, so a failed save never leaves a partial artifact.
func (f *filesystem) Save(ctx context.Context, key string, data []byte) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	target := filepath.Join(f.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", mapFSError(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".save-*")
	if err != nil {
		return "", mapFSError(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", mapFSError(err)
	}
	if err := tmp.Close(); err != nil {
		return "", mapFSError(err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", mapFSError(err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", mapFSError(err)
	}

	location, err := filepath.Abs(target)
	if err != nil {
		location = target
	}

	f.logger.Info("artifact saved", "location", location, "bytes", len(data))
	return location, nil
}

func mapFSError(err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %w", ErrWriteFailed, err)
}
