package place

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-hbnb/internal/api"
	"github.com/FACorreiaa/go-hbnb/internal/models"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetCityPlaces(w http.ResponseWriter, r *http.Request)
	GetPlace(w http.ResponseWriter, r *http.Request)
	CreatePlace(w http.ResponseWriter, r *http.Request)
	UpdatePlace(w http.ResponseWriter, r *http.Request)
	DeletePlace(w http.ResponseWriter, r *http.Request)
	SearchPlaces(w http.ResponseWriter, r *http.Request)
	GetPlaceAmenities(w http.ResponseWriter, r *http.Request)
	LinkAmenity(w http.ResponseWriter, r *http.Request)
	UnlinkAmenity(w http.ResponseWriter, r *http.Request)
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

// GetCityPlaces godoc
// @Summary      List the places of a city
// @Tags         Places
// @Produce      json
// @Param        city_id path string true "City ID"
// @Success      200 {array} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /cities/{city_id}/places [get]
func (h *HandlerImpl) GetCityPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.service.GetCityPlaces(r.Context(), chi.URLParam(r, "cityID"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, api.Public(places))
}

// GetPlace godoc
// @Summary      Get a place
// @Tags         Places
// @Produce      json
// @Param        place_id path string true "Place ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /places/{place_id} [get]
func (h *HandlerImpl) GetPlace(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPlace(r.Context(), chi.URLParam(r, "placeID"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, models.PublicMap(p))
}

// CreatePlace godoc
// @Summary      Create a place in a city
// @Tags         Places
// @Accept       json
// @Produce      json
// @Param        city_id path string true "City ID"
// @Param        body body map[string]interface{} true "Place attributes, user_id and name required"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /cities/{city_id}/places [post]
func (h *HandlerImpl) CreatePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cityID := chi.URLParam(r, "cityID")

	body, err := api.DecodeJSONBody(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "Invalid request body", slog.String("cityID", cityID), slog.Any("error", err))
		body = nil
	}
	p, err := h.service.CreatePlace(ctx, cityID, body)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, models.PublicMap(p))
}

// UpdatePlace godoc
// @Summary      Update a place
// @Description  user_id and city_id cannot be changed.
// @Tags         Places
// @Accept       json
// @Produce      json
// @Param        place_id path string true "Place ID"
// @Param        body body map[string]interface{} true "Attributes to change"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /places/{place_id} [put]
func (h *HandlerImpl) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "placeID")

	body, err := api.DecodeJSONBody(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "Invalid request body", slog.String("id", id), slog.Any("error", err))
		body = nil
	}
	p, err := h.service.UpdatePlace(ctx, id, body)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, models.PublicMap(p))
}

// DeletePlace godoc
// @Summary      Delete a place
// @Tags         Places
// @Produce      json
// @Param        place_id path string true "Place ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /places/{place_id} [delete]
func (h *HandlerImpl) DeletePlace(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePlace(r.Context(), chi.URLParam(r, "placeID")); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{})
}

// SearchPlaces godoc
// @Summary      Search places
// @Description  Filters places by states, cities and amenities. An empty body returns every place.
// @Tags         Places
// @Accept       json
// @Produce      json
// @Param        body body map[string]interface{} true "{states: [], cities: [], amenities: []}"
// @Success      200 {array} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Router       /places_search [post]
func (h *HandlerImpl) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := api.DecodeJSONBody(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "Invalid search body", slog.Any("error", err))
		api.WriteError(w, r, err)
		return
	}
	places := h.service.SearchPlaces(ctx, FilterFromBody(body))
	api.WriteJSONResponse(w, r, http.StatusOK, api.Public(places))
}

// GetPlaceAmenities godoc
// @Summary      List the amenities of a place
// @Tags         Place amenities
// @Produce      json
// @Param        place_id path string true "Place ID"
// @Success      200 {array} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /places/{place_id}/amenities [get]
func (h *HandlerImpl) GetPlaceAmenities(w http.ResponseWriter, r *http.Request) {
	amenities, err := h.service.GetPlaceAmenities(r.Context(), chi.URLParam(r, "placeID"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, api.Public(amenities))
}

// LinkAmenity godoc
// @Summary      Link an amenity to a place
// @Description  Returns 200 when the amenity was already linked.
// @Tags         Place amenities
// @Produce      json
// @Param        place_id path string true "Place ID"
// @Param        amenity_id path string true "Amenity ID"
// @Success      200 {object} map[string]interface{}
// @Success      201 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /places/{place_id}/amenities/{amenity_id} [post]
func (h *HandlerImpl) LinkAmenity(w http.ResponseWriter, r *http.Request) {
	a, linked, err := h.service.LinkAmenity(r.Context(), chi.URLParam(r, "placeID"), chi.URLParam(r, "amenityID"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	status := http.StatusOK
	if linked {
		status = http.StatusCreated
	}
	api.WriteJSONResponse(w, r, status, models.PublicMap(a))
}

// UnlinkAmenity godoc
// @Summary      Unlink an amenity from a place
// @Tags         Place amenities
// @Produce      json
// @Param        place_id path string true "Place ID"
// @Param        amenity_id path string true "Amenity ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /places/{place_id}/amenities/{amenity_id} [delete]
func (h *HandlerImpl) UnlinkAmenity(w http.ResponseWriter, r *http.Request) {
	if err := h.service.UnlinkAmenity(r.Context(), chi.URLParam(r, "placeID"), chi.URLParam(r, "amenityID")); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{})
}
