package review

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-hbnb/internal/api"
	"github.com/FACorreiaa/go-hbnb/internal/models"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetPlaceReviews(w http.ResponseWriter, r *http.Request)
	GetReview(w http.ResponseWriter, r *http.Request)
	CreateReview(w http.ResponseWriter, r *http.Request)
	UpdateReview(w http.ResponseWriter, r *http.Request)
	DeleteReview(w http.ResponseWriter, r *http.Request)
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

// GetPlaceReviews godoc
// @Summary      List the reviews of a place
// @Tags         Reviews
// @Produce      json
// @Param        place_id path string true "Place ID"
// @Success      200 {array} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /places/{place_id}/reviews [get]
func (h *HandlerImpl) GetPlaceReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.GetPlaceReviews(r.Context(), chi.URLParam(r, "placeID"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, api.Public(reviews))
}

// GetReview godoc
// @Summary      Get a review
// @Tags         Reviews
// @Produce      json
// @Param        review_id path string true "Review ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /reviews/{review_id} [get]
func (h *HandlerImpl) GetReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.service.GetReview(r.Context(), chi.URLParam(r, "reviewID"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, models.PublicMap(rv))
}

// CreateReview godoc
// @Summary      Review a place
// @Tags         Reviews
// @Accept       json
// @Produce      json
// @Param        place_id path string true "Place ID"
// @Param        body body map[string]interface{} true "Review attributes, user_id and text required"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /places/{place_id}/reviews [post]
func (h *HandlerImpl) CreateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	placeID := chi.URLParam(r, "placeID")

	body, err := api.DecodeJSONBody(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "Invalid request body", slog.String("placeID", placeID), slog.Any("error", err))
		body = nil
	}
	rv, err := h.service.CreateReview(ctx, placeID, body)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, models.PublicMap(rv))
}

// UpdateReview godoc
// @Summary      Update a review
// @Tags         Reviews
// @Accept       json
// @Produce      json
// @Param        review_id path string true "Review ID"
// @Param        body body map[string]interface{} true "Attributes to change"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /reviews/{review_id} [put]
func (h *HandlerImpl) UpdateReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "reviewID")

	body, err := api.DecodeJSONBody(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "Invalid request body", slog.String("id", id), slog.Any("error", err))
		body = nil
	}
	rv, err := h.service.UpdateReview(ctx, id, body)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, models.PublicMap(rv))
}

// DeleteReview godoc
// @Summary      Delete a review
// @Tags         Reviews
// @Produce      json
// @Param        review_id path string true "Review ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /reviews/{review_id} [delete]
func (h *HandlerImpl) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteReview(r.Context(), chi.URLParam(r, "reviewID")); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{})
}
