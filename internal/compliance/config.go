package compliance

import (
	"os"
	"strconv"
)

// Config holds compliance collector settings. An empty endpoint selects
// the log collaborator.
type Config struct {
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint       string
	TimeoutSeconds string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.TimeoutSeconds != 0 {
		c.TimeoutSeconds = overlay.TimeoutSeconds
	}
}

func (c *Config) loadDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.TimeoutSeconds != "" {
		if v := os.Getenv(env.TimeoutSeconds); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.TimeoutSeconds = n
			}
		}
	}
}
