package city

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-hbnb/internal/api"
	"github.com/FACorreiaa/go-hbnb/internal/models"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetStateCities(w http.ResponseWriter, r *http.Request)
	GetCity(w http.ResponseWriter, r *http.Request)
	CreateCity(w http.ResponseWriter, r *http.Request)
	UpdateCity(w http.ResponseWriter, r *http.Request)
	DeleteCity(w http.ResponseWriter, r *http.Request)
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

// GetStateCities godoc
// @Summary      List the cities of a state
// @Tags         Cities
// @Produce      json
// @Param        state_id path string true "State ID"
// @Success      200 {array} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /states/{state_id}/cities [get]
func (h *HandlerImpl) GetStateCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.GetStateCities(r.Context(), chi.URLParam(r, "stateID"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, api.Public(cities))
}

// GetCity godoc
// @Summary      Get a city
// @Tags         Cities
// @Produce      json
// @Param        city_id path string true "City ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /cities/{city_id} [get]
func (h *HandlerImpl) GetCity(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCity(r.Context(), chi.URLParam(r, "cityID"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, models.PublicMap(c))
}

// CreateCity godoc
// @Summary      Create a city in a state
// @Tags         Cities
// @Accept       json
// @Produce      json
// @Param        state_id path string true "State ID"
// @Param        body body map[string]interface{} true "City attributes, name required"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /states/{state_id}/cities [post]
func (h *HandlerImpl) CreateCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stateID := chi.URLParam(r, "stateID")
	l := h.logger.With(slog.String("handler", "CreateCity"), slog.String("stateID", stateID))

	body, err := api.DecodeJSONBody(w, r)
	if err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		body = nil
	}
	c, err := h.service.CreateCity(ctx, stateID, body)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, models.PublicMap(c))
}

// UpdateCity godoc
// @Summary      Update a city
// @Tags         Cities
// @Accept       json
// @Produce      json
// @Param        city_id path string true "City ID"
// @Param        body body map[string]interface{} true "Attributes to change"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /cities/{city_id} [put]
func (h *HandlerImpl) UpdateCity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "cityID")
	l := h.logger.With(slog.String("handler", "UpdateCity"), slog.String("id", id))

	body, err := api.DecodeJSONBody(w, r)
	if err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		body = nil
	}
	c, err := h.service.UpdateCity(ctx, id, body)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, models.PublicMap(c))
}

// DeleteCity godoc
// @Summary      Delete a city
// @Tags         Cities
// @Produce      json
// @Param        city_id path string true "City ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /cities/{city_id} [delete]
func (h *HandlerImpl) DeleteCity(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCity(r.Context(), chi.URLParam(r, "cityID")); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{})
}
