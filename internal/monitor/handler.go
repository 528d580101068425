package monitor

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/clickchain/engage/pkg/handlers"
	"github.com/clickchain/engage/pkg/routes"
)

// Handler provides HTTP endpoints for monitor control.
type Handler struct {
	monitor *Monitor
	logger  *slog.Logger
}

// NewHandler creates a Handler for the given monitor.
func NewHandler(monitor *Monitor, logger *slog.Logger) *Handler {
	return &Handler{
		monitor: monitor,
		logger:  logger.With("handler", "monitor"),
	}
}

// Routes returns the route group definition for monitor endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/monitor",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/start", Handler: h.Start},
			{Method: "POST", Pattern: "/stop", Handler: h.Stop},
			{Method: "GET", Pattern: "/status", Handler: h.Status},
			{Method: "GET", Pattern: "/logs", Handler: h.Logs},
		},
	}
}

// Start begins the polling schedule. Starting an active monitor returns
// its current status unchanged.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	status, err := h.monitor.StartMonitoring()
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, status)
}

// Stop halts the polling schedule, draining any in-flight poll first.
func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.monitor.StopMonitoring())
}

// Status reports whether the monitor is active, its last check time,
// and how many messages it has processed.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.monitor.Status())
}

// Logs returns recent activity entries, newest first. Supports limit
// and level query parameters.
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			handlers.RespondError(w, h.logger, http.StatusBadRequest,
				errInvalidLimit)
			return
		}
		limit = n
	}

	var level Level
	if v := r.URL.Query().Get("level"); v != "" {
		parsed, ok := ParseLevel(v)
		if !ok {
			handlers.RespondError(w, h.logger, http.StatusBadRequest,
				errInvalidLevel)
			return
		}
		level = parsed
	}

	handlers.RespondJSON(w, http.StatusOK, h.monitor.Logs(limit, level))
}
