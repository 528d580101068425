package api

import (
	"net/http"

	"github.com/clickchain/engage/internal/engagement"
	"github.com/clickchain/engage/internal/monitor"
	"github.com/clickchain/engage/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Policies.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
		domain.Cases.Handler().Routes(),
		engagement.NewHandler(domain.Engagement, runtime.Logger).Routes(),
		monitor.NewHandler(domain.Monitor, runtime.Logger).Routes(),
	)
}
