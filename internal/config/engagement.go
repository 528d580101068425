package config

import (
	"fmt"
	"os"
	"time"
)

const EnvClassifierTimeout = "ENGAGE_CLASSIFIER_TIMEOUT"

// EngagementConfig holds reply pipeline settings.
type EngagementConfig struct {
	ClassifierTimeout string `toml:"classifier_timeout"`
}

// ClassifierTimeoutDuration returns ClassifierTimeout as a time.Duration.
func (c *EngagementConfig) ClassifierTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ClassifierTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngagementConfig) Finalize() error {
	if c.ClassifierTimeout == "" {
		c.ClassifierTimeout = "10s"
	}
	if v := os.Getenv(EnvClassifierTimeout); v != "" {
		c.ClassifierTimeout = v
	}
	if _, err := time.ParseDuration(c.ClassifierTimeout); err != nil {
		return fmt.Errorf("invalid classifier_timeout: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *EngagementConfig) Merge(overlay *EngagementConfig) {
	if overlay.ClassifierTimeout != "" {
		c.ClassifierTimeout = overlay.ClassifierTimeout
	}
}
