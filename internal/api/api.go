// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/clickchain/engage/internal/config"
	"github.com/clickchain/engage/internal/infrastructure"
	"github.com/clickchain/engage/pkg/middleware"
	"github.com/clickchain/engage/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The inbox monitor registers its lifecycle hooks here so it starts and
// stops with the rest of the service.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	if err := domain.Monitor.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("monitor start failed: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
