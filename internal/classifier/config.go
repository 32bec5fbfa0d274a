package classifier

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/oagrade/pkg/formatting"
)

// Config holds the resolved settings for the remote classification endpoint.
// TimeoutSeconds mirrors the settings-store shape and, when set, takes
// precedence over Timeout.
type Config struct {
	Endpoint       string `toml:"endpoint"`
	Timeout        string `toml:"timeout"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	FieldName      string `toml:"field_name"`
	MaxImageSize   string `toml:"max_image_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint       string
	Timeout        string
	TimeoutSeconds string
	FieldName      string
	MaxImageSize   string
}

// Finalize applies defaults, environment overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.TimeoutSeconds != 0 {
		c.TimeoutSeconds = overlay.TimeoutSeconds
	}
	if overlay.FieldName != "" {
		c.FieldName = overlay.FieldName
	}
	if overlay.MaxImageSize != "" {
		c.MaxImageSize = overlay.MaxImageSize
	}
}

// TimeoutDuration returns the resolved request timeout.
func (c *Config) TimeoutDuration() time.Duration {
	if c.TimeoutSeconds > 0 {
		return time.Duration(c.TimeoutSeconds) * time.Second
	}
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// MaxImageSizeBytes returns MaxImageSize in bytes.
func (c *Config) MaxImageSizeBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxImageSize)
	return n
}

func (c *Config) loadDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "http://localhost:5000/predict"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.FieldName == "" {
		c.FieldName = "file"
	}
	if c.MaxImageSize == "" {
		c.MaxImageSize = "20MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
	if env.TimeoutSeconds != "" {
		if v := os.Getenv(env.TimeoutSeconds); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.TimeoutSeconds = n
			}
		}
	}
	if env.FieldName != "" {
		if v := os.Getenv(env.FieldName); v != "" {
			c.FieldName = v
		}
	}
	if env.MaxImageSize != "" {
		if v := os.Getenv(env.MaxImageSize); v != "" {
			c.MaxImageSize = v
		}
	}
}

func (c *Config) validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint scheme %q: want http or https", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", c.Endpoint)
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid timeout_seconds: %d", c.TimeoutSeconds)
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 && c.TimeoutSeconds == 0 {
		return fmt.Errorf("invalid timeout: must be positive")
	}
	if c.FieldName == "" {
		return fmt.Errorf("field_name required")
	}
	n, err := formatting.ParseBytes(c.MaxImageSize)
	if err != nil {
		return fmt.Errorf("invalid max_image_size: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("invalid max_image_size: must be positive")
	}
	return nil
}
