package config

import (
	"fmt"
	"os"
)

const EnvHistoryAssetsDir = "OAGRADE_HISTORY_ASSETS_DIR"

// HistoryConfig holds settings for classification history beyond the
// database itself.
type HistoryConfig struct {
	AssetsDir string `toml:"assets_dir"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *HistoryConfig) Finalize() error {
	if c.AssetsDir == "" {
		c.AssetsDir = "assets"
	}
	if v := os.Getenv(EnvHistoryAssetsDir); v != "" {
		c.AssetsDir = v
	}
	if c.AssetsDir == "" {
		return fmt.Errorf("assets_dir required")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *HistoryConfig) Merge(overlay *HistoryConfig) {
	if overlay.AssetsDir != "" {
		c.AssetsDir = overlay.AssetsDir
	}
}
