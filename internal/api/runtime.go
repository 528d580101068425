package api

import (
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/clickchain/engage/internal/compliance"
	"github.com/clickchain/engage/internal/config"
	"github.com/clickchain/engage/internal/infrastructure"
	"github.com/clickchain/engage/internal/mail"
	"github.com/clickchain/engage/internal/monitor"
	"github.com/clickchain/engage/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Agent             gaconfig.AgentConfig
	Pagination        pagination.Config
	Mail              *mail.Config
	Monitor           *monitor.Config
	Compliance        *compliance.Config
	ClassifierTimeout time.Duration
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Archive:   infra.Archive,
			Registry:  infra.Registry,
		},
		Agent:             cfg.Agent,
		Pagination:        cfg.API.Pagination,
		Mail:              &cfg.Mail,
		Monitor:           &cfg.Monitor,
		Compliance:        &cfg.Compliance,
		ClassifierTimeout: cfg.Engagement.ClassifierTimeoutDuration(),
	}
}
