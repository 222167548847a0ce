package amenity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-hbnb/internal/api"
	"github.com/FACorreiaa/go-hbnb/internal/models"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetAmenities(w http.ResponseWriter, r *http.Request)
	GetAmenity(w http.ResponseWriter, r *http.Request)
	CreateAmenity(w http.ResponseWriter, r *http.Request)
	UpdateAmenity(w http.ResponseWriter, r *http.Request)
	DeleteAmenity(w http.ResponseWriter, r *http.Request)
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

// GetAmenities godoc
// @Summary      List amenities
// @Tags         Amenities
// @Produce      json
// @Success      200 {array} map[string]interface{}
// @Router       /amenities [get]
func (h *HandlerImpl) GetAmenities(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, api.Public(h.service.GetAmenities(r.Context())))
}

// GetAmenity godoc
// @Summary      Get an amenity
// @Tags         Amenities
// @Produce      json
// @Param        amenity_id path string true "Amenity ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /amenities/{amenity_id} [get]
func (h *HandlerImpl) GetAmenity(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.GetAmenity(r.Context(), chi.URLParam(r, "amenityID"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, models.PublicMap(a))
}

// CreateAmenity godoc
// @Summary      Create an amenity
// @Tags         Amenities
// @Accept       json
// @Produce      json
// @Param        body body map[string]interface{} true "Amenity attributes, name required"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Router       /amenities [post]
func (h *HandlerImpl) CreateAmenity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreateAmenity"))

	body, err := api.DecodeJSONBody(w, r)
	if err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.WriteError(w, r, err)
		return
	}
	a, err := h.service.CreateAmenity(ctx, body)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, models.PublicMap(a))
}

// UpdateAmenity godoc
// @Summary      Update an amenity
// @Tags         Amenities
// @Accept       json
// @Produce      json
// @Param        amenity_id path string true "Amenity ID"
// @Param        body body map[string]interface{} true "Attributes to change"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /amenities/{amenity_id} [put]
func (h *HandlerImpl) UpdateAmenity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "amenityID")
	l := h.logger.With(slog.String("handler", "UpdateAmenity"), slog.String("id", id))

	body, err := api.DecodeJSONBody(w, r)
	if err != nil {
		// Reported as ErrNotJSON by the service once the amenity is known to exist.
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		body = nil
	}
	a, err := h.service.UpdateAmenity(ctx, id, body)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, models.PublicMap(a))
}

// DeleteAmenity godoc
// @Summary      Delete an amenity
// @Tags         Amenities
// @Produce      json
// @Param        amenity_id path string true "Amenity ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /amenities/{amenity_id} [delete]
func (h *HandlerImpl) DeleteAmenity(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAmenity(r.Context(), chi.URLParam(r, "amenityID")); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{})
}
