package user

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-hbnb/internal/api"
	"github.com/FACorreiaa/go-hbnb/internal/models"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetUsers(w http.ResponseWriter, r *http.Request)
	GetUser(w http.ResponseWriter, r *http.Request)
	CreateUser(w http.ResponseWriter, r *http.Request)
	UpdateUser(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService UserService
	logger      *slog.Logger
}

// NewHandler creates a new user handler instance.
func NewHandler(userService UserService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// GetUsers godoc
// @Summary      List users
// @Description  Passwords are never returned.
// @Tags         Users
// @Produce      json
// @Success      200 {array} map[string]interface{}
// @Router       /users [get]
func (h *HandlerImpl) GetUsers(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, api.Public(h.userService.GetUsers(r.Context())))
}

// GetUser godoc
// @Summary      Get a user
// @Tags         Users
// @Produce      json
// @Param        user_id path string true "User ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /users/{user_id} [get]
func (h *HandlerImpl) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.userService.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, models.PublicMap(u))
}

// CreateUser godoc
// @Summary      Create a user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body body map[string]interface{} true "User attributes, email and password required"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Router       /users [post]
func (h *HandlerImpl) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "CreateUser"))

	body, err := api.DecodeJSONBody(w, r)
	if err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.WriteError(w, r, err)
		return
	}
	u, err := h.userService.CreateUser(ctx, body)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusCreated, models.PublicMap(u))
}

// UpdateUser godoc
// @Summary      Update a user
// @Description  The email cannot be changed.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        user_id path string true "User ID"
// @Param        body body map[string]interface{} true "Attributes to change"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /users/{user_id} [put]
func (h *HandlerImpl) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "userID")
	l := h.logger.With(slog.String("HandlerImpl", "UpdateUser"), slog.String("id", id))

	body, err := api.DecodeJSONBody(w, r)
	if err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		body = nil
	}
	u, err := h.userService.UpdateUser(ctx, id, body)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, models.PublicMap(u))
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         Users
// @Produce      json
// @Param        user_id path string true "User ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /users/{user_id} [delete]
func (h *HandlerImpl) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userService.DeleteUser(r.Context(), chi.URLParam(r, "userID")); err != nil {
		api.WriteError(w, r, err)
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{})
}
