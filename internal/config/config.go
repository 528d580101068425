package config

import (
	"fmt"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/pelletier/go-toml/v2"

	"github.com/clickchain/engage/internal/compliance"
	"github.com/clickchain/engage/internal/mail"
	"github.com/clickchain/engage/internal/monitor"
	"github.com/clickchain/engage/pkg/database"
	"github.com/clickchain/engage/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvEngageEnv             = "ENGAGE_ENV"
	EnvEngageShutdownTimeout = "ENGAGE_SHUTDOWN_TIMEOUT"
	EnvEngageVersion         = "ENGAGE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "ENGAGE_DB_HOST",
	Port:            "ENGAGE_DB_PORT",
	Name:            "ENGAGE_DB_NAME",
	User:            "ENGAGE_DB_USER",
	Password:        "ENGAGE_DB_PASSWORD",
	SSLMode:         "ENGAGE_DB_SSL_MODE",
	MaxOpenConns:    "ENGAGE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "ENGAGE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "ENGAGE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "ENGAGE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Enabled:          "ENGAGE_ARCHIVE_ENABLED",
	ContainerName:    "ENGAGE_ARCHIVE_CONTAINER_NAME",
	ConnectionString: "ENGAGE_ARCHIVE_CONNECTION_STRING",
}

var mailEnv = &mail.Env{
	Host:             "ENGAGE_MAIL_HOST",
	Port:             "ENGAGE_MAIL_PORT",
	Username:         "ENGAGE_MAIL_USERNAME",
	Password:         "ENGAGE_MAIL_PASSWORD",
	From:             "ENGAGE_MAIL_FROM",
	SpoolDir:         "ENGAGE_MAIL_SPOOL_DIR",
	BatchConcurrency: "ENGAGE_MAIL_BATCH_CONCURRENCY",
}

var monitorEnv = &monitor.Env{
	CheckIntervalSeconds: "ENGAGE_MONITOR_CHECK_INTERVAL_SECONDS",
	AutoStart:            "ENGAGE_MONITOR_AUTO_START",
	FollowUpAfterHours:   "ENGAGE_MONITOR_FOLLOW_UP_AFTER_HOURS",
	DedupMaxAgeHours:     "ENGAGE_MONITOR_DEDUP_MAX_AGE_HOURS",
	StaleBatchSize:       "ENGAGE_MONITOR_STALE_BATCH_SIZE",
	LogCapacity:          "ENGAGE_MONITOR_LOG_CAPACITY",
}

var complianceEnv = &compliance.Env{
	Endpoint:       "ENGAGE_COMPLIANCE_ENDPOINT",
	TimeoutSeconds: "ENGAGE_COMPLIANCE_TIMEOUT_SECONDS",
}

// Config is the root configuration for the engagement service.
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        database.Config       `toml:"database"`
	Archive         storage.Config        `toml:"archive"`
	Mail            mail.Config           `toml:"mail"`
	Monitor         monitor.Config        `toml:"monitor"`
	Compliance      compliance.Config     `toml:"compliance"`
	Agent           gaconfig.AgentConfig  `toml:"agent"`
	Engagement      EngagementConfig      `toml:"engagement"`
	API             APIConfig             `toml:"api"`
	ShutdownTimeout string                `toml:"shutdown_timeout"`
	Version         string                `toml:"version"`
}

// Env returns the ENGAGE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvEngageEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Archive.Merge(&overlay.Archive)
	c.Mail.Merge(&overlay.Mail)
	c.Monitor.Merge(&overlay.Monitor)
	c.Compliance.Merge(&overlay.Compliance)
	c.Agent.Merge(&overlay.Agent)
	c.Engagement.Merge(&overlay.Engagement)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Archive.Finalize(storageEnv); err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	if err := c.Mail.Finalize(mailEnv); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	if err := c.Monitor.Finalize(monitorEnv); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	if err := c.Compliance.Finalize(complianceEnv); err != nil {
		return fmt.Errorf("compliance: %w", err)
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Engagement.Finalize(); err != nil {
		return fmt.Errorf("engagement: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvEngageShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvEngageVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
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
	if env := os.Getenv(EnvEngageEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
