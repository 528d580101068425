package monitor

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds inbox monitoring settings.
type Config struct {
	CheckIntervalSeconds int  `toml:"check_interval_seconds"`
	AutoStart            bool `toml:"auto_start"`
	FollowUpAfterHours   int  `toml:"follow_up_after_hours"`
	DedupMaxAgeHours     int  `toml:"dedup_max_age_hours"`
	StaleBatchSize       int  `toml:"stale_batch_size"`
	LogCapacity          int  `toml:"log_capacity"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	CheckIntervalSeconds string
	AutoStart            string
	FollowUpAfterHours   string
	DedupMaxAgeHours     string
	StaleBatchSize       string
	LogCapacity          string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. AutoStart always applies; int
// fields only apply when non-zero.
func (c *Config) Merge(overlay *Config) {
	c.AutoStart = overlay.AutoStart

	if overlay.CheckIntervalSeconds != 0 {
		c.CheckIntervalSeconds = overlay.CheckIntervalSeconds
	}
	if overlay.FollowUpAfterHours != 0 {
		c.FollowUpAfterHours = overlay.FollowUpAfterHours
	}
	if overlay.DedupMaxAgeHours != 0 {
		c.DedupMaxAgeHours = overlay.DedupMaxAgeHours
	}
	if overlay.StaleBatchSize != 0 {
		c.StaleBatchSize = overlay.StaleBatchSize
	}
	if overlay.LogCapacity != 0 {
		c.LogCapacity = overlay.LogCapacity
	}
}

func (c *Config) loadDefaults() {
	if c.CheckIntervalSeconds <= 0 {
		c.CheckIntervalSeconds = 60
	}
	if c.FollowUpAfterHours <= 0 {
		c.FollowUpAfterHours = 24
	}
	if c.DedupMaxAgeHours <= 0 {
		c.DedupMaxAgeHours = 24
	}
	if c.StaleBatchSize <= 0 {
		c.StaleBatchSize = 50
	}
	if c.LogCapacity <= 0 {
		c.LogCapacity = defaultLogCapacity
	}
}

func (c *Config) loadEnv(env *Env) {
	setInt := func(name string, target *int) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				*target = n
			}
		}
	}

	setInt(env.CheckIntervalSeconds, &c.CheckIntervalSeconds)
	setInt(env.FollowUpAfterHours, &c.FollowUpAfterHours)
	setInt(env.DedupMaxAgeHours, &c.DedupMaxAgeHours)
	setInt(env.StaleBatchSize, &c.StaleBatchSize)
	setInt(env.LogCapacity, &c.LogCapacity)

	if env.AutoStart != "" {
		if v := os.Getenv(env.AutoStart); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.AutoStart = b
			}
		}
	}
}

func (c *Config) validate() error {
	if c.CheckIntervalSeconds < 1 {
		return fmt.Errorf("check_interval_seconds must be positive")
	}
	return nil
}
