package composite

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds composite rendering settings.
type Config struct {
	Quality   int `toml:"quality"`
	FontScale int `toml:"font_scale"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Quality   string
	FontScale string
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
	if overlay.Quality != 0 {
		c.Quality = overlay.Quality
	}
	if overlay.FontScale != 0 {
		c.FontScale = overlay.FontScale
	}
}

func (c *Config) loadDefaults() {
	if c.Quality == 0 {
		c.Quality = 90
	}
	if c.FontScale == 0 {
		c.FontScale = 2
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Quality != "" {
		if v := os.Getenv(env.Quality); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Quality = n
			}
		}
	}
	if env.FontScale != "" {
		if v := os.Getenv(env.FontScale); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.FontScale = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("invalid quality %d: must be between 1 and 100", c.Quality)
	}
	if c.FontScale < 1 || c.FontScale > 8 {
		return fmt.Errorf("invalid font_scale %d: must be between 1 and 8", c.FontScale)
	}
	return nil
}
