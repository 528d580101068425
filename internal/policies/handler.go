package policies

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/clickchain/engage/pkg/handlers"
	"github.com/clickchain/engage/pkg/routes"
)

// Handler provides HTTP endpoints for policy operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "policies"),
	}
}

// Routes returns the route group definition for policy endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/policies",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/reasons", Handler: h.List},
			{Method: "GET", Pattern: "/reasons/{id}", Handler: h.Find},
			{Method: "GET", Pattern: "/reasons/type/{type}", Handler: h.FindByType},
			{Method: "POST", Pattern: "/reasons", Handler: h.Create},
			{Method: "PUT", Pattern: "/reasons/{id}", Handler: h.Update},
			{Method: "POST", Pattern: "/reasons/{id}/train", Handler: h.Train},
			{Method: "POST", Pattern: "/reasons/{id}/activate", Handler: h.Activate},
			{Method: "POST", Pattern: "/reasons/{id}/deactivate", Handler: h.Deactivate},
		},
	}
}

// List returns every absence reason ordered by position.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	reasons, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reasons)
}

// Find returns a single absence reason by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	reason, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reason)
}

// FindByType returns the absence reason matching the type path parameter.
func (h *Handler) FindByType(w http.ResponseWriter, r *http.Request) {
	reason, err := h.sys.FindByType(r.Context(), r.PathValue("type"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reason)
}

// Create registers a new absence reason from a CreateCommand JSON body.
// Returns 201 with the created reason on success.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	reason, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, reason)
}

// Update overwrites a reason's policy attributes from an UpdateCommand JSON body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	reason, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reason)
}

// Train appends keywords to a reason's keyword set from a TrainCommand JSON body.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	var cmd TrainCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	reason, err := h.sys.Train(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reason)
}

// Activate marks a reason as active so classification considers it again.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// Deactivate retires a reason from classification without deleting its history.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	reason, err := h.sys.SetActive(r.Context(), id, active)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, reason)
}
