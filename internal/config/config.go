// Package config loads oagrade configuration from TOML files and
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/oagrade/internal/classifier"
	"github.com/JaimeStill/oagrade/internal/composite"
	"github.com/JaimeStill/oagrade/pkg/database"
	"github.com/JaimeStill/oagrade/pkg/gallery"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvOagradeConfig          = "OAGRADE_CONFIG"
	EnvOagradeEnv             = "OAGRADE_ENV"
	EnvOagradeShutdownTimeout = "OAGRADE_SHUTDOWN_TIMEOUT"
	EnvOagradeLogLevel        = "OAGRADE_LOG_LEVEL"
	EnvOagradeVersion         = "OAGRADE_VERSION"
)

var classifierEnv = &classifier.Env{
	Endpoint:       "OAGRADE_CLASSIFIER_ENDPOINT",
	Timeout:        "OAGRADE_CLASSIFIER_TIMEOUT",
	TimeoutSeconds: "OAGRADE_CLASSIFIER_TIMEOUT_SECONDS",
	FieldName:      "OAGRADE_CLASSIFIER_FIELD_NAME",
	MaxImageSize:   "OAGRADE_CLASSIFIER_MAX_IMAGE_SIZE",
}

var databaseEnv = &database.Env{
	Path:            "OAGRADE_DB_PATH",
	JournalMode:     "OAGRADE_DB_JOURNAL_MODE",
	BusyTimeout:     "OAGRADE_DB_BUSY_TIMEOUT",
	MaxOpenConns:    "OAGRADE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "OAGRADE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "OAGRADE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "OAGRADE_DB_CONN_TIMEOUT",
}

var galleryEnv = &gallery.Env{
	Provider:         "OAGRADE_GALLERY_PROVIDER",
	Directory:        "OAGRADE_GALLERY_DIRECTORY",
	ContainerName:    "OAGRADE_GALLERY_CONTAINER_NAME",
	ConnectionString: "OAGRADE_GALLERY_CONNECTION_STRING",
	AccountURL:       "OAGRADE_GALLERY_ACCOUNT_URL",
}

var compositeEnv = &composite.Env{
	Quality:   "OAGRADE_COMPOSITE_QUALITY",
	FontScale: "OAGRADE_COMPOSITE_FONT_SCALE",
}

// Config is the root configuration for oagrade.
type Config struct {
	Classifier      classifier.Config `toml:"classifier"`
	Database        database.Config   `toml:"database"`
	History         HistoryConfig     `toml:"history"`
	Gallery         gallery.Config    `toml:"gallery"`
	Composite       composite.Config  `toml:"composite"`
	Server          ServerConfig      `toml:"server"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	LogLevel        string            `toml:"log_level"`
	Version         string            `toml:"version"`
}

// Env returns the OAGRADE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvOagradeEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	level.UnmarshalText([]byte(c.LogLevel))
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. The base file is OAGRADE_CONFIG when set,
// otherwise config.toml in the working directory. If no base file exists,
// defaults and environment variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	base := BaseConfigFile
	if v := os.Getenv(EnvOagradeConfig); v != "" {
		base = v
	}

	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if base != BaseConfigFile {
		return nil, fmt.Errorf("read config %s: %w", base, err)
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Classifier.Merge(&overlay.Classifier)
	c.Database.Merge(&overlay.Database)
	c.History.Merge(&overlay.History)
	c.Gallery.Merge(&overlay.Gallery)
	c.Composite.Merge(&overlay.Composite)
	c.Server.Merge(&overlay.Server)
}

// Finalize applies defaults, environment overrides, and validation to the
// root config and every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Classifier.Finalize(classifierEnv); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.History.Finalize(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := c.Gallery.Finalize(galleryEnv); err != nil {
		return fmt.Errorf("gallery: %w", err)
	}
	if err := c.Composite.Finalize(compositeEnv); err != nil {
		return fmt.Errorf("composite: %w", err)
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "10s"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvOagradeShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvOagradeLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvOagradeVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvOagradeEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
