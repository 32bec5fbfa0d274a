package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/oagrade/pkg/formatting"
)

// FileSource reads images from the local filesystem. SelectImage reads
// SelectPath; CaptureImage reads the newest JPEG or PNG in CaptureDir, which
// is where a tethered device drops its exposures. An empty path means the
// user made no choice and is reported as a cancellation.
type FileSource struct {
	SelectPath string
	CaptureDir string
	MaxSize    int64
	Logger     *slog.Logger
}

var captureExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

func (s *FileSource) SelectImage(ctx context.Context) (*Image, error) {
	if s.SelectPath == "" {
		return nil, nil
	}
	return s.read(ctx, s.SelectPath)
}

func (s *FileSource) CaptureImage(ctx context.Context) (*Image, error) {
	if s.CaptureDir == "" {
		return nil, nil
	}

	path, err := s.newest()
	if err != nil {
		return nil, err
	}
	return s.read(ctx, path)
}

func (s *FileSource) newest() (string, error) {
	entries, err := os.ReadDir(s.CaptureDir)
	if err != nil {
		return "", mapFSError(s.CaptureDir, err)
	}

	var (
		newest string
		latest int64
	)
	for _, e := range entries {
		if e.IsDir() || !captureExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		mod := info.ModTime().UnixNano()
		if newest == "" || mod > latest || (mod == latest && e.Name() > filepath.Base(newest)) {
			newest = filepath.Join(s.CaptureDir, e.Name())
			latest = mod
		}
	}

	if newest == "" {
		return "", fmt.Errorf("%w: no captured image in %s", ErrDeviceFailure, s.CaptureDir)
	}
	return newest, nil
}

func (s *FileSource) read(ctx context.Context, path string) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceFailure, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, mapFSError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, mapFSError(path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidFormat, path)
	}
	if s.MaxSize > 0 && info.Size() > s.MaxSize {
		return nil, fmt.Errorf(
			"%w: %s is %s, limit %s",
			ErrInvalidFormat, path,
			formatting.FormatBytes(info.Size(), 1),
			formatting.FormatBytes(s.MaxSize, 1),
		)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, mapFSError(path, err)
	}

	img, err := Validate(path, data)
	if err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.Info("image acquired",
			"ref", path,
			"format", img.Format,
			"width", img.Width,
			"height", img.Height,
		)
	}
	return img, nil
}

func mapFSError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
	default:
		return fmt.Errorf("%w: %s: %w", ErrDeviceFailure, path, err)
	}
}
