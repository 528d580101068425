package engagement

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/clickchain/engage/internal/cases"
	"github.com/clickchain/engage/internal/mail"
	"github.com/clickchain/engage/pkg/handlers"
	"github.com/clickchain/engage/pkg/routes"
)

// Handler provides HTTP endpoints for engagement operations.
type Handler struct {
	rt     *Runtime
	logger *slog.Logger
}

// NotifyBatchRequest carries a batch of missing entries to notify.
type NotifyBatchRequest struct {
	Entries []cases.RegisterCommand `json:"entries"`
}

// EscalateRequest carries the reason for a manual escalation.
type EscalateRequest struct {
	Reason string `json:"reason"`
}

// NewHandler creates a Handler with the given runtime and logger.
func NewHandler(rt *Runtime, logger *slog.Logger) *Handler {
	return &Handler{
		rt:     rt,
		logger: logger.With("handler", "engagement"),
	}
}

// Routes returns the route group definition for engagement endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/engagement",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/notify", Handler: h.Notify},
			{Method: "POST", Pattern: "/notify/batch", Handler: h.NotifyBatch},
			{Method: "POST", Pattern: "/reply", Handler: h.Reply},
			{Method: "POST", Pattern: "/cases/{id}/followup", Handler: h.FollowUp},
			{Method: "POST", Pattern: "/cases/{id}/escalate", Handler: h.Escalate},
			{Method: "GET", Pattern: "/summary", Handler: h.Summary},
		},
	}
}

// Notify opens a case from a RegisterCommand JSON body and sends the
// initial inquiry. Returns 201 with the case on success.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	var cmd cases.RegisterCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	c, err := h.rt.Notify(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c)
}

// NotifyBatch opens cases for a batch of entries and sends the inquiries
// concurrently.
func (h *Handler) NotifyBatch(w http.ResponseWriter, r *http.Request) {
	var req NotifyBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	opened, err := h.rt.NotifyBatch(r.Context(), req.Entries)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, opened)
}

// Reply runs the reply pipeline for an inbound message supplied directly
// over HTTP, bypassing the spool. Useful for integrations that deliver
// replies through webhooks.
func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	var msg mail.Inbound
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	c, err := h.rt.HandleReply(r.Context(), msg)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// FollowUp manually triggers a reminder for a case.
func (h *Handler) FollowUp(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrNotFound)
		return
	}

	c, err := h.rt.SendFollowUp(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Escalate hands a validated case to the compliance collaborator.
func (h *Handler) Escalate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, cases.ErrNotFound)
		return
	}

	var req EscalateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	c, err := h.rt.EscalateCase(r.Context(), id, req.Reason)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// Summary returns case counts per status.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.rt.Cases.Summary(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}
