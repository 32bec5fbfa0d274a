package workflow

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/oagrade/internal/history"
)

// HeatmapAssetName returns the file name under which the heatmap for record
// id is stored, with an extension matching the payload.
func HeatmapAssetName(id string, data []byte) string {
	ext := ".bin"
	switch http.DetectContentType(data) {
	case "image/png":
		ext = ".png"
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	case "image/bmp":
		ext = ".bmp"
	}
	return "heatmap_" + id + ext
}

func writeAsset(dir, id string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty heatmap payload")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create assets directory: %w", err)
	}

	path := filepath.Join(dir, HeatmapAssetName(id, data))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write heatmap asset: %w", err)
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}

// RemoveAsset deletes the heatmap asset of rec when it lives under dir.
// References outside dir are left alone, and a missing file is not an error.
func RemoveAsset(dir string, rec history.Record) error {
	if dir == "" || rec.HeatmapImageRef == "" {
		return nil
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	target, err := filepath.Abs(rec.HeatmapImageRef)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove heatmap asset: %w", err)
	}
	return nil
}
