package mail

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds SMTP delivery and spool intake settings.
type Config struct {
	Host             string `toml:"host"`
	Port             int    `toml:"port"`
	Username         string `toml:"username"`
	Password         string `toml:"password"`
	From             string `toml:"from"`
	SpoolDir         string `toml:"spool_dir"`
	BatchConcurrency int    `toml:"batch_concurrency"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Host             string
	Port             string
	Username         string
	Password         string
	From             string
	SpoolDir         string
	BatchConcurrency string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.Username != "" {
		c.Username = overlay.Username
	}
	if overlay.Password != "" {
		c.Password = overlay.Password
	}
	if overlay.From != "" {
		c.From = overlay.From
	}
	if overlay.SpoolDir != "" {
		c.SpoolDir = overlay.SpoolDir
	}
	if overlay.BatchConcurrency != 0 {
		c.BatchConcurrency = overlay.BatchConcurrency
	}
}

func (c *Config) loadDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 587
	}
	if c.From == "" {
		c.From = "hr-engagement@localhost"
	}
	if c.SpoolDir == "" {
		c.SpoolDir = "spool"
	}
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = 4
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Host != "" {
		if v := os.Getenv(env.Host); v != "" {
			c.Host = v
		}
	}
	if env.Port != "" {
		if v := os.Getenv(env.Port); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.Port = n
			}
		}
	}
	if env.Username != "" {
		if v := os.Getenv(env.Username); v != "" {
			c.Username = v
		}
	}
	if env.Password != "" {
		if v := os.Getenv(env.Password); v != "" {
			c.Password = v
		}
	}
	if env.From != "" {
		if v := os.Getenv(env.From); v != "" {
			c.From = v
		}
	}
	if env.SpoolDir != "" {
		if v := os.Getenv(env.SpoolDir); v != "" {
			c.SpoolDir = v
		}
	}
	if env.BatchConcurrency != "" {
		if v := os.Getenv(env.BatchConcurrency); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.BatchConcurrency = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Host == "" {
		return fmt.Errorf("host required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if c.From == "" {
		return fmt.Errorf("from address required")
	}
	if c.SpoolDir == "" {
		return fmt.Errorf("spool_dir required")
	}
	return nil
}
