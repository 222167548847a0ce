package state

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-hbnb/internal/api"
	"github.com/FACorreiaa/go-hbnb/internal/models"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetStates(w http.ResponseWriter, r *http.Request)
	GetState(w http.ResponseWriter, r *http.Request)
	CreateState(w http.ResponseWriter, r *http.Request)
	UpdateState(w http.ResponseWriter, r *http.Request)
	DeleteState(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	logger  *slog.Logger
	service Service
}

func NewHandler(service Service, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		logger:  logger,
		service: service,
	}
}

// GetStates godoc
// @Summary      List states
// @Tags         States
// @Produce      json
// @Success      200 {array} map[string]interface{}
// @Router       /states [get]
func (h *HandlerImpl) GetStates(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, api.Public(h.service.GetStates(r.Context())))
}

// GetState godoc
// @Summary      Get a state
// @Tags         States
// @Produce      json
// @Param        state_id path string true "State ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /states/{state_id} [get]
func (h *HandlerImpl) GetState(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.GetState(r.Context(), chi.URLParam(r, "stateID"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, models.PublicMap(st))
}

// CreateState godoc
// @Summary      Create a state
// @Tags         States
// @Accept       json
// @Produce      json
// @Param        body body map[string]interface{} true "State attributes, name required"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Router       /states [post]
func (h *HandlerImpl) CreateState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateState"))

	body, err := api.DecodeJSONBody(w, r)
	if err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.WriteError(w, r, err)
		return
	}
	st, err := h.service.CreateState(ctx, body)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, models.PublicMap(st))
}

// UpdateState godoc
// @Summary      Update a state
// @Tags         States
// @Accept       json
// @Produce      json
// @Param        state_id path string true "State ID"
// @Param        body body map[string]interface{} true "Attributes to change"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /states/{state_id} [put]
func (h *HandlerImpl) UpdateState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "stateID")
	l := h.logger.With(slog.String("handler", "UpdateState"), slog.String("id", id))

	body, err := api.DecodeJSONBody(w, r)
	if err != nil {
		// Reported as ErrNotJSON by the service once the state is known to exist.
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		body = nil
	}
	st, err := h.service.UpdateState(ctx, id, body)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, models.PublicMap(st))
}

// DeleteState godoc
// @Summary      Delete a state
// @Tags         States
// @Produce      json
// @Param        state_id path string true "State ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /states/{state_id} [delete]
func (h *HandlerImpl) DeleteState(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteState(r.Context(), chi.URLParam(r, "stateID")); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{})
}
