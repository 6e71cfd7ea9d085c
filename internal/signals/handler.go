package signals

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mrsingh86/freightdesk/pkg/handlers"
	"github.com/mrsingh86/freightdesk/pkg/pagination"
	"github.com/mrsingh86/freightdesk/pkg/routes"
)

// Handler provides HTTP endpoints for blocker and insight operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	validate   *validator.Validate
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "signals"),
		pagination: pagination,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes returns the route group definition for signal endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/signals",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/blockers", Handler: h.ListBlockers},
			{Method: "POST", Pattern: "/blockers", Handler: h.CreateBlocker},
			{Method: "POST", Pattern: "/blockers/{id}/clear", Handler: h.ClearBlocker},
			{Method: "GET", Pattern: "/insights/{shipmentId}", Handler: h.ListInsights},
			{Method: "POST", Pattern: "/insights", Handler: h.CreateInsight},
		},
	}
}

// ListBlockers returns a paginated list of blockers with optional query parameter filters.
func (h *Handler) ListBlockers(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := BlockerFiltersFromQuery(r.URL.Query())

	result, err := h.sys.ListBlockers(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// CreateBlocker opens a blocker on a shipment from a JSON body.
func (h *Handler) CreateBlocker(w http.ResponseWriter, r *http.Request) {
	var cmd CreateBlockerCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	if err := h.validate.Struct(cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	b, err := h.sys.CreateBlocker(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, b)
}

// ClearBlocker resolves an open blocker by its UUID path parameter.
func (h *Handler) ClearBlocker(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	applied, err := h.sys.ClearBlocker(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if !applied {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListInsights returns the insights recorded for a shipment, newest first.
func (h *Handler) ListInsights(w http.ResponseWriter, r *http.Request) {
	shipmentID, err := uuid.Parse(r.PathValue("shipmentId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	results, err := h.sys.ListInsights(r.Context(), shipmentID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, results)
}

// CreateInsight records an analysis finding from a JSON body.
func (h *Handler) CreateInsight(w http.ResponseWriter, r *http.Request) {
	var cmd CreateInsightCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	if err := h.validate.Struct(cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalid)
		return
	}

	i, err := h.sys.CreateInsight(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, i)
}
